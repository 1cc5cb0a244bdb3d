package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/avi-perl/posthole/internal/events"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [topic]",
	Short: "Print record events from NATS as they happen",
	Long: `Subscribes to the event bus and prints each event payload to stdout.
The topic may use NATS wildcards; the default covers every record event.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := "posthole.>"
		if len(args) == 1 {
			topic = args[0]
		}

		url := os.Getenv("POSTHOLE_NATS_URL")
		if url == "" {
			return fmt.Errorf("POSTHOLE_NATS_URL is required for watch")
		}

		sub, err := events.NewNATSSubscriber(url)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return err
		}
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)

		fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", topic)
		for {
			select {
			case payload, ok := <-ch:
				if !ok {
					return nil
				}
				fmt.Println(string(payload))
			case <-sigCh:
				return nil
			}
		}
	},
}
