package main

import (
	"fmt"

	"opengoal/steam"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <game>",
	Short: "Delete an installed game",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, closeFn, err := newService()
		if err != nil {
			return err
		}
		defer closeFn()

		if err := service.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s removed\n", args[0])
		return nil
	},
}

var ownerID string

var shortcutCmd = &cobra.Command{
	Use:   "shortcut <game>",
	Short: "Add a non-Steam shortcut for a game",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := steam.ParseSteamID(ownerID)
		if err != nil {
			return wrapUsageError(fmt.Errorf("invalid --owner %q: %w", ownerID, err))
		}

		service, closeFn, err := newService()
		if err != nil {
			return err
		}
		defer closeFn()

		appID, err := service.CreateShortcut(owner, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Shortcut created with app id %d\n", appID)
		return nil
	},
}

func init() {
	shortcutCmd.Flags().StringVar(&ownerID, "owner", "", "SteamID64, STEAM_0:x:y or [U:1:n] of the shortcut owner")
	_ = shortcutCmd.MarkFlagRequired("owner")

	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(shortcutCmd)
}
