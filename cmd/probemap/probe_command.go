package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/probemap"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>...",
		Short: "Show parsed media information",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.newSession(cmd, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			failed := 0
			for _, path := range args {
				info, err := s.engine.Probe(cmd.Context(), path)
				if err != nil && !probemap.IsKind(err, probemap.KindProbeParse) {
					if probemap.IsKind(err, probemap.KindCancelled) {
						return err
					}
					reportFailure(s, "Probe failed", path, err)
					failed++
					continue
				}
				summary := probemap.Summarize(info)
				summary.Path = path
				s.reporter.MediaSummary(summary)
				if !info.Valid {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be probed", failed, len(args))
			}
			return nil
		},
	}
}
