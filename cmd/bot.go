package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"racedash/config"
	tg_api "racedash/telegram"
	vk_api "racedash/vk"
)

func newBotCmd(a *app) *cobra.Command {
	botCmd := &cobra.Command{
		Use:   "bot",
		Short: "Run a chat bot",
	}

	botCmd.AddCommand(&cobra.Command{
		Use:   "vk",
		Short: "VK community bot (token in RACEVK_BOT)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := config.VkToken()
			if err != nil {
				return err
			}
			bot, err := vk_api.NewVKAPI(token, a.cfg.Season, a.service, a.service)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bot.Run(ctx, a.log)
		},
	})

	botCmd.AddCommand(&cobra.Command{
		Use:   "telegram",
		Short: "Telegram bot (token in RACETG_BOT)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := config.TgToken()
			if err != nil {
				return err
			}
			bot, err := tg_api.NewTGAPI(token, a.cfg.Season, a.service)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bot.Run(ctx, a.log)
		},
	})

	return botCmd
}
