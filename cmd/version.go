package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build metadata injected by main
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString(version, buildTime))
		return err
	},
}

// versionString formats build metadata. Release builds are normalized to
// canonical semver; anything else, such as "dev", is printed as given.
func versionString(v, bt string) string {
	if parsed, err := semver.ParseTolerant(v); err == nil {
		v = "v" + parsed.String()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "filmquery %s", v)
	if bt != "" && bt != "unknown" {
		fmt.Fprintf(&sb, " (built %s)", bt)
	}
	fmt.Fprintf(&sb, " %s/%s", runtime.GOOS, runtime.GOARCH)

	return sb.String()
}
