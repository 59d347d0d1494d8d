package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"backlinks/internal/config"
	"backlinks/internal/report"

	"github.com/spf13/cobra"
)

func classifyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [URL...]",
		Short: "Classifies URLs given as arguments, or one per line on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if len(urls) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if line := strings.TrimSpace(sc.Text()); line != "" {
						urls = append(urls, line)
					}
				}
				if err := sc.Err(); err != nil {
					return fmt.Errorf("could not read URLs: %w", err)
				}
			}

			// classification only, never enrich
			classifyCfg := *cfg
			classifyCfg.Enrichment.Enabled = false
			a, err := newAnalyzer(cmd.Context(), &classifyCfg, nil)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if f, ok := w.(*os.File); ok && report.IsTerminal(f) {
				fmt.Fprintln(w, "STATUS\tURL\tREASON")
			}
			for _, o := range a.Classify(cmd.Context(), urls...) {
				if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", o.Verdict.Status(), o.URL, o.Verdict.Reason()); err != nil {
					return err //nolint: wrapcheck
				}
			}

			return nil
		},
	}

	return cmd
}
