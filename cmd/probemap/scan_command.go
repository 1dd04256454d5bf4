package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/probemap"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var workers int

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Probe and match every video file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.newSession(cmd, sessionOptions{needProfiles: true, workers: workers})
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := s.engine.Scan(cmd.Context(), args[0], recursive)
			if probemap.IsNoFilesFound(err) {
				s.reporter.Warning(err.Error())
				return nil
			}
			if err != nil {
				return err
			}

			s.reporter.OperationComplete(fmt.Sprintf("Scanned %d files, %d matched",
				len(result.Files), result.MatchedCount))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel probes (default: CPU count)")
	return cmd
}
