package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/probemap"
	"github.com/five82/probemap/internal/reporter"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var showMedia bool

	cmd := &cobra.Command{
		Use:   "match <file>...",
		Short: "Select a profile for each file from the rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.newSession(cmd, sessionOptions{needProfiles: true})
			if err != nil {
				return err
			}
			defer s.Close()

			unmatched := 0
			for _, path := range args {
				analysis, err := s.engine.Analyze(cmd.Context(), path)
				if err != nil {
					// Rule mistakes affect every file; stop at the first.
					if probemap.IsKind(err, probemap.KindRuleConfig) || probemap.IsKind(err, probemap.KindCancelled) {
						return err
					}
					reportFailure(s, "Match failed", path, err)
					unmatched++
					continue
				}

				if showMedia {
					summary := probemap.Summarize(analysis.Info)
					summary.Path = path
					s.reporter.MediaSummary(summary)
				}
				if !analysis.Matched {
					s.reporter.Warning(fmt.Sprintf("no rule matched %s", path))
					unmatched++
					continue
				}
				s.reporter.StreamPlan(reporter.StreamPlanSummary{
					InputFile: path,
					Rule:      analysis.Rule,
					Profile:   analysis.Profile.Name,
					Args:      analysis.StreamArgs,
				})
			}

			if unmatched > 0 {
				return fmt.Errorf("%d of %d files did not match a rule", unmatched, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMedia, "show-media", false, "Also print parsed media information")
	return cmd
}

// reportFailure sends a per-file error to the reporter.
func reportFailure(s *session, title, path string, err error) {
	s.reporter.Error(reporter.ReporterError{
		Title:   title,
		Message: err.Error(),
		Context: path,
	})
}
