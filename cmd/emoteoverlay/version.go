package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/emoteoverlay/internal/version"
)

func newVersionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Read()
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), info.String()); err != nil {
				return err
			}
			if !verbose || info.Revision == "" {
				return nil
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "revision %s %s\n", info.Revision, info.Time.Format("2006-01-02T15:04:05Z"))
			return err
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include vcs revision and time")
	return cmd
}
