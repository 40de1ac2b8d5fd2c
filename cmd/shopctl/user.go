package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wichananm65/shop-assistant-backend/internal/user"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newSetActiveCmd("enable", "Allow a user to log in again", true))
	cmd.AddCommand(newSetActiveCmd("disable", "Block a user from logging in", false))
	return cmd
}

func newSetActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			u, err := user.NewService(user.NewPostgresRepository(db)).SetActive(ctx, args[0], active)
			if err != nil {
				return fmt.Errorf("%s %q: %w", use, args[0], err)
			}
			log.Info("user updated", zap.String("username", u.Username), zap.Bool("is_active", u.IsActive))
			return nil
		},
	}
}
