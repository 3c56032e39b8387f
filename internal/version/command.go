package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand adds a `version` subcommand to root.
func AttachCobraVersionCommand(root *cobra.Command) {
	var short bool

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long:  "Print the version, commit and build time injected through ldflags, plus the Go runtime the binary was built with.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			line := Full()
			if short {
				line = Short()
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
		},
	}

	versionCmd.Flags().BoolVar(&short, "short", false, "print only the semantic version")
	root.AddCommand(versionCmd)
}
