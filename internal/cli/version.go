package cli

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// VersionInfo is injected at build time via ldflags in the main package.
type VersionInfo struct {
	Version   string
	Build     string
	BuildTime string
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout(), a.deps.Version)
		},
	}
}

// printVersion prints the version information
func printVersion(w io.Writer, info VersionInfo) {
	version := info.Version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "cheztheme version %s", version)

	if info.Build != "unknown" && info.Build != "" {
		fmt.Fprintf(w, " (build: %s)", info.Build)
	}

	if info.BuildTime != "" {
		fmt.Fprintf(w, " [%s]", info.BuildTime)
	}

	fmt.Fprintln(w)

	fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// Development builds carry the VCS revision in the build info.
	if version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range bi.Settings {
				if setting.Key == "vcs.revision" && len(setting.Value) > 7 {
					fmt.Fprintf(w, "Commit: %s\n", setting.Value[:7])
					break
				}
			}
		}
	}
}
