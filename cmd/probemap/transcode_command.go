package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTranscodeCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "transcode <input> [output]",
		Short: "Transcode a file with the profile its rules select",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.newSession(cmd, sessionOptions{needProfiles: true, outputDir: outputDir})
			if err != nil {
				return err
			}
			defer s.Close()

			var output string
			if len(args) == 2 {
				output = args[1]
			}

			result, err := s.engine.Transcode(cmd.Context(), args[0], output)
			if err != nil {
				return err
			}
			if err := result.Err(); err != nil {
				return err
			}

			s.reporter.OperationComplete(fmt.Sprintf("Transcoded %s", result.OutputFile))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (default: next to the input)")
	return cmd
}
