package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pkt.systems/emoteoverlay/internal/appconfig"
	"pkt.systems/emoteoverlay/internal/catalog"
	"pkt.systems/emoteoverlay/schema"
)

func newCatalogCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the emote catalog",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	load := func() (*catalog.Catalog, error) {
		cfg, err := appconfig.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		return catalog.Load(cfg.Catalog.Path, nil)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List known emote codes and image ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emotes, err := load()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, entry := range emotes.Entries() {
				if _, err := fmt.Fprintf(w, "%s\t%s\n", entry.Name, entry.ImageID); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}

	resolve := &cobra.Command{
		Use:   "resolve <emote>",
		Short: "Print the image id for an emote code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emotes, err := load()
			if err != nil {
				return err
			}
			id, ok := emotes.Resolve(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", schema.ErrUnknownEmote, args[0])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}

	cmd.AddCommand(list, resolve)
	return cmd
}
