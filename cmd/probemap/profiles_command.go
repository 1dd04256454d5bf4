package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/probemap"
)

func newProfilesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the profiles and rules in the profiles file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := cfg.RequireProfiles()
			if err != nil {
				return fmt.Errorf("%w (use --profiles)", err)
			}
			set, err := probemap.LoadProfiles(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, renderProfiles(set))
			_, _ = fmt.Fprintln(out, renderRules(set))
			return nil
		},
	}
}

func renderProfiles(set *probemap.ProfileSet) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Profiles")
	tw.AppendHeader(table.Row{"Name", "Audio", "Subtitles", "Extension", "Output options"})
	for _, name := range set.Names() {
		p, _ := set.Profile(name)
		tw.AppendRow(table.Row{
			name,
			describeSelection(p.Audio.Include, p.Audio.Exclude, p.Audio.Default),
			describeSelection(p.Subtitle.Include, p.Subtitle.Exclude, ""),
			p.Extension,
			strings.Join(p.OutputOptions, " "),
		})
	}
	return tw.Render()
}

func renderRules(set *probemap.ProfileSet) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Rules (first match wins)")
	tw.AppendHeader(table.Row{"#", "Rule", "Profile", "Criteria"})
	for i, rule := range set.Rules() {
		criteria := make([]string, 0, len(rule.Criteria))
		for attr, value := range rule.Criteria {
			criteria = append(criteria, attr+" "+value)
		}
		sort.Strings(criteria)
		desc := strings.Join(criteria, ", ")
		if desc == "" {
			desc = "(always)"
		}
		tw.AppendRow(table.Row{i + 1, rule.Name, rule.Profile, desc})
	}
	return tw.Render()
}

func describeSelection(include, exclude []string, def string) string {
	var parts []string
	if len(include) > 0 {
		parts = append(parts, "only "+strings.Join(include, ","))
	}
	if len(exclude) > 0 {
		parts = append(parts, "drop "+strings.Join(exclude, ","))
	}
	if def != "" {
		parts = append(parts, "default "+def)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "; ")
}
