package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/emoteoverlay/internal/appconfig"
	"pkt.systems/pslog"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var path string
	var overwrite bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := appconfig.WriteDefault(path, overwrite)
			if err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("config wrote", "path", written)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&path, "output", "o", "", "config path (default ~/.emoteoverlay/config.yaml)")
	initCmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing config")

	cmd.AddCommand(initCmd)
	return cmd
}
