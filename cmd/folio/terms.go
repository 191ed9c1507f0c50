package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hrygo/folio/plugin/glossary"
)

func newTermsCmd() *cobra.Command {
	var section string
	cmd := &cobra.Command{
		Use:   "terms [query]",
		Short: "Search the glossary terms of the site.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, _, err := setup()
			if err != nil {
				return err
			}
			terms, err := s.Glossary()
			if err != nil {
				return err
			}

			q := glossary.Query{Section: section}
			if len(args) > 0 {
				q.Text = args[0]
			}
			res := glossary.Search(terms, q)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range res.Shown {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Term, t.Section, t.Desc)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&section, "section", glossary.AllSections, "only show terms of this section")
	return cmd
}

func newPagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "Print the page manifest in effect.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, s, _, err := setup()
			if err != nil {
				return err
			}
			data, err := s.Manifest.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
