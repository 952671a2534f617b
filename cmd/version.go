// File: cmd/version.go
package cmd

import "github.com/spf13/cobra"

// Version is the application version.
// Set it at build time with ldflags, e.g.
// go build -ldflags "-X github.com/xkilldash9x/synthmouse/cmd.Version=1.0.0"
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the synthmouse version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("synthmouse version %s\n", Version)
		},
	}
}
