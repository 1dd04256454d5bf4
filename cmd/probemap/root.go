package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/probemap/internal/config"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "probemap",
		Short:         "Probe media files and map them to transcode profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.profiles, "profiles", "p", config.DefaultProfilePath, "Profiles and rules file (TOML)")
	pf.StringVar(&flags.ffmpeg, "ffmpeg", config.DefaultFFmpegPath, "ffmpeg executable")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Report rule criteria that fail to match")
	pf.BoolVar(&flags.json, "json", false, "Emit NDJSON events instead of text")
	pf.StringVar(&flags.logDir, "log-dir", config.DefaultLogDir, "Directory for run logs")
	pf.BoolVar(&flags.noLog, "no-log", false, "Disable the run log file")
	pf.DurationVar(&flags.timeout, "probe-timeout", config.DefaultProbeTimeout, "Timeout for each ffmpeg probe")

	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newMapCommand(ctx))
	rootCmd.AddCommand(newMatchCommand(ctx))
	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newTranscodeCommand(ctx))
	rootCmd.AddCommand(newProfilesCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
