package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/emoteoverlay/internal/appconfig"
	"pkt.systems/emoteoverlay/internal/botlink"
	"pkt.systems/emoteoverlay/internal/logx"
	"pkt.systems/emoteoverlay/schema"
)

func newNotifyCmd() *cobra.Command {
	var cfgPath string
	var socketPath string
	var username string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "notify <pattern> <emote>",
		Short: "Ask a running overlay to draw an emote next to some text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if socketPath == "" {
				cfg, err := appconfig.Load(cfgPath)
				if err != nil {
					return err
				}
				socketPath = cfg.SocketPath
			}
			n := schema.BotNotification{
				Username:  username,
				Pattern:   args[0],
				EmoteCode: args[1],
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := botlink.Send(ctx, socketPath, n); err != nil {
				return err
			}
			logx.WithNotification(logx.Ctx(cmd.Context()), n).Info("notification sent", "socket", socketPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&socketPath, "socket", "", "bot socket path (overrides config)")
	cmd.Flags().StringVarP(&username, "user", "u", "", "chat username to attribute the emote to")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "dial and write timeout")
	return cmd
}
