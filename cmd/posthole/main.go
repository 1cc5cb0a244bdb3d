package main

import (
	"os"

	"github.com/avi-perl/posthole/internal/client"
	"github.com/avi-perl/posthole/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	jsonOutput bool

	apiClient *client.HTTPClient
)

func defaultServerURL() string {
	if s := os.Getenv("POSTHOLE_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:   "posthole <command>",
	Short: "Schema-less JSON record API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		apiClient = client.NewHTTPClient(serverURL)
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", defaultServerURL(), "server base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
