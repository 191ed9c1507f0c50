package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/folio/internal/site"
)

var errPagesFailed = errors.New("one or more pages failed to load")

type checkOptions struct {
	pages  []string
	watch  bool
	dump   bool
	asJSON bool
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load every page in one session and report pages that fail.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, s, logger, err := setup()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			if !opts.watch {
				return runCheck(ctx, cmd.OutOrStdout(), s, opts)
			}

			if err := runCheck(ctx, cmd.OutOrStdout(), s, opts); err != nil && !errors.Is(err, errPagesFailed) {
				return err
			}
			w := site.NewWatcher(s.Profile.Site, 0, logger)
			logger.Info("watching site for changes", slog.String("site", s.Profile.Site))
			return w.Run(ctx, func(ctx context.Context) {
				// pick up manifest edits
				next, err := site.New(s.Profile, logger, s.Metrics)
				if err != nil {
					logger.Error("failed to reload manifest", slog.String("error", err.Error()))
					return
				}
				s = next
				if err := runCheck(ctx, cmd.OutOrStdout(), s, opts); err != nil && !errors.Is(err, errPagesFailed) {
					logger.Error("check failed", slog.String("error", err.Error()))
				}
			}, s.Profile.Manifest)
		},
	}
	cmd.Flags().StringSliceVar(&opts.pages, "page", nil, "pages to check, every page when empty")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-run the check with a fresh session when the site changes")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "print the rendered container of each page")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	return cmd
}

func runCheck(ctx context.Context, out io.Writer, s *site.Site, opts *checkOptions) error {
	report, err := s.Check(ctx, opts.pages...)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "failed to encode report")
		}
	} else if err := report.WriteTable(out); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	if opts.dump {
		for _, p := range report.Pages {
			doc, ok := report.Document(p.Name)
			if !ok {
				continue
			}
			cfg, _ := s.Manifest.Page(p.Name)
			inner, ok := doc.InnerHTML(cfg.Container)
			if !ok {
				continue
			}
			fmt.Fprintf(out, "\n== %s #%s ==\n%s\n", p.Name, cfg.Container, inner)
		}
	}

	if report.Failed() {
		return errPagesFailed
	}
	return nil
}
