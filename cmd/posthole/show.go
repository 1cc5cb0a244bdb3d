package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avi-perl/posthole/internal/model"
	"github.com/avi-perl/posthole/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		showDeleted, _ := cmd.Flags().GetBool("deleted")

		item, err := apiClient.GetItem(context.Background(), args[0], showDeleted)
		if err != nil {
			return err
		}

		if jsonOutput {
			data, err := json.MarshalIndent(item, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printItem(item)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("deleted", false, "include soft-deleted records")
}

func printItem(item *model.Item) {
	header := ui.RenderID(item.ID) + "  " + item.Model + " " + ui.RenderMuted("v"+model.FormatVersion(item.Version))
	if item.Deleted {
		header += " " + ui.RenderDeleted("[deleted]")
	}
	fmt.Println(header)
	fmt.Println(ui.RenderMuted("created " + item.Created.Format(time.RFC3339)))
	if item.LastUpdated != nil {
		fmt.Println(ui.RenderMuted("updated " + item.LastUpdated.Format(time.RFC3339)))
	}
	if len(item.Data) > 0 {
		var pretty json.RawMessage = item.Data
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			fmt.Println(string(out))
		} else {
			fmt.Println(string(item.Data))
		}
	}
}
