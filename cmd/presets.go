package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/filmquery/filter"
)

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the query presets defined in config",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listPresets(cmd.OutOrStdout(), presets)
	},
}

func listPresets(w io.Writer, presets *filter.Manager) error {
	names := presets.ListPresets()
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No presets configured")
		return err
	}

	var sb strings.Builder
	for _, name := range names {
		preset, ok := presets.GetPreset(name)
		if !ok {
			continue
		}

		fmt.Fprintf(&sb, "• %s\n", name)
		for _, key := range slices.Sorted(maps.Keys(preset.Params)) {
			fmt.Fprintf(&sb, "  %s=%s\n", key, preset.Params[key])
		}
		if preset.Filter != nil {
			fmt.Fprintf(&sb, "  where: %s\n", preset.Filter.Expression())
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
