package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build-time values, injected with -ldflags at release time.
var (
	version   = "dev"
	gitCommit = ""
	buildTime = ""
)

// NewVersionCmd reports the binary's build provenance.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version:    %s\n", version)
			if gitCommit != "" {
				fmt.Fprintf(out, "Git commit: %s\n", gitCommit)
			}
			if buildTime != "" {
				fmt.Fprintf(out, "Built:      %s\n", buildTime)
			}
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
