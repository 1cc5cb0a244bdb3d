package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avi-perl/posthole/internal/ui"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Summarize records grouped by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := apiClient.ModelSummary(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			data, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		for _, m := range resp.Models {
			fmt.Printf("%s  %s\n", m.Model,
				ui.RenderMuted(fmt.Sprintf("%d active, %d deleted", m.ActiveCount, m.DeletedCount)))
		}
		fmt.Println(ui.RenderMuted(fmt.Sprintf("%d model(s)", resp.Count)))
		return nil
	},
}
