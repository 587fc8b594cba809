package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show install state and version of every game",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, closeFn, err := newService()
		if err != nil {
			return err
		}
		defer closeFn()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleColoredBright)
		t.AppendHeader(table.Row{"#", "Game", "Title", "ISO", "Installed", "Version", "Update"})

		for i, g := range service.Games() {
			st, err := service.Status(cmd.Context(), g.ID)
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{i + 1, st.ID, st.Title, yesNo(st.ISOAvailable), yesNo(st.Installed), st.InstalledVersion, yesNo(st.OutOfDate)})
		}

		free := "unknown"
		if bytes, err := service.FreeSpace(); err == nil {
			free = humanize.IBytes(bytes)
		}
		t.AppendFooter(table.Row{"", "", "", "", "", "Free", free})
		t.Render()
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
