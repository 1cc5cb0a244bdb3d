package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avi-perl/posthole/internal/client"
	"github.com/avi-perl/posthole/internal/model"
	"github.com/avi-perl/posthole/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [model]",
	Short: "List records, optionally for one model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.ListItemsRequest{}
		if len(args) == 1 {
			req.Model = args[0]
		}
		req.ShowDeleted, _ = cmd.Flags().GetBool("deleted")
		req.Offset, _ = cmd.Flags().GetInt("offset")
		req.Limit, _ = cmd.Flags().GetInt("limit")

		resp, err := apiClient.ListItems(context.Background(), req)
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

		for _, item := range resp.Items {
			line := ui.RenderID(item.ID) + "  " + item.Model + " " +
				ui.RenderMuted("v"+model.FormatVersion(item.Version))
			if item.Deleted {
				line += " " + ui.RenderDeleted("[deleted]")
			}
			fmt.Println(line)
		}
		fmt.Println(ui.RenderMuted(fmt.Sprintf("%d record(s)", resp.Count)))
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("deleted", false, "include soft-deleted records")
	listCmd.Flags().Int("offset", 0, "records to skip")
	listCmd.Flags().Int("limit", 0, "maximum records to return")
}
