package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hrygo/folio/plugin/feed"
)

func newFeedCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Export the projects as an RSS, Atom or JSON feed.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := feed.ParseFormat(format)
			if err != nil {
				return err
			}
			_, s, _, err := setup()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			return s.WriteFeed(ctx, cmd.OutOrStdout(), f, time.Now())
		},
	}
	cmd.Flags().StringVar(&format, "format", "rss", "feed format: rss, atom or json")
	return cmd
}
