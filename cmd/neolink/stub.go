package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	for _, name := range []string{"rtsp", "mqtt", "talk"} {
		rootCmd.AddCommand(unimplementedCmd(name))
	}
}

// unimplementedCmd registers name as a recognized subcommand that always
// fails with exit code 2, naming it as an external-collaborator surface
// (an RTSP server, an MQTT bridge, two-way audio) outside this repository's
// scope per spec.md's Non-goals.
func unimplementedCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:                name,
		Short:              fmt.Sprintf("(unimplemented here) %s is a separate collaborator surface.", name),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("%s is not implemented by this binary; it belongs to a separate collaborator surface", name)
		},
	}
}
