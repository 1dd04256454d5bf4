package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/five82/probemap/internal/reporter"
)

func newMapCommand(ctx *commandContext) *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "map <file>",
		Short: "Print the stream selection a profile produces for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileName == "" {
				return errors.New("--profile is required")
			}
			s, err := ctx.newSession(cmd, sessionOptions{needProfiles: true})
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.engine.Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p, streamArgs, err := s.engine.Plan(info, profileName)
			if err != nil {
				return err
			}

			s.reporter.StreamPlan(reporter.StreamPlanSummary{
				InputFile: args[0],
				Profile:   p.Name,
				Args:      streamArgs,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Profile to apply")
	return cmd
}
