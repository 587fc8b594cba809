package main

import (
	"context"
	"fmt"
	"time"

	"opengoal/backend"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <game>",
	Short: "Download the latest release and build a game from its ISO",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd.Context(), args[0], false)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <game>",
	Short: "Replace an installed game with the latest release",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd.Context(), args[0], true)
	},
}

func runInstall(ctx context.Context, game string, update bool) error {
	service, closeFn, err := newService()
	if err != nil {
		return err
	}
	defer closeFn()

	action := service.Install
	if update {
		action = service.Update
	}

	done := make(chan error, 1)
	go func() { done <- action(ctx, game) }()

	bar := progressbar.New(100)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			if err != nil {
				fmt.Println()
				return err
			}
			_ = bar.Finish()
			fmt.Printf("\n%s is ready\n", game)
			return nil
		case <-ticker.C:
			stage, progress := service.Progress(game)
			if stage == backend.StageIdle {
				continue
			}
			bar.Describe(string(stage))
			_ = bar.Set(int(progress.Load() * 100))
		}
	}
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(updateCmd)
}
