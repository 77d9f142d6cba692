package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	m "gooze.dev/pkg/mutest/internal/model"
)

// buildVersion is set with -ldflags "-X gooze.dev/pkg/mutest/cmd.buildVersion=..."
// by release builds. Module builds fall back to the build info.
var buildVersion string

func mutestVersion() string {
	if buildVersion != "" {
		return buildVersion
	}

	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "devel"
	}

	return info.Main.Version
}

func joinNames[T any](values []T) string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, fmt.Sprint(v))
	}

	return strings.Join(names, ", ")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the mutest version and what it can mutate",
		Long: `Prints the mutest build version, the Go toolchain it was built with,
the source languages it can scan and the mutation categories it knows.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("mutest version\t", mutestVersion())

			if info, ok := debug.ReadBuildInfo(); ok {
				cmd.Println("go version\t", info.GoVersion)
			}

			cmd.Println("languages\t", joinNames(m.Languages()))
			cmd.Println("categories\t", joinNames(m.AllCategories()))
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
