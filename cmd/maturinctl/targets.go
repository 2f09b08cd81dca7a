package main

import (
	"github.com/spf13/cobra"

	"github.com/gridctl/maturinctl/pkg/container"
	"github.com/gridctl/maturinctl/pkg/output"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the build container chosen for each target and tier",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printer := output.New()
		printer.Images(imageRows(container.Entries()))
	},
}

func imageRows(entries []container.Entry) []output.ImageRow {
	rows := make([]output.ImageRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, output.ImageRow{
			Target: e.Target.String(),
			Tier:   string(e.Tier),
			Image:  e.Image,
		})
	}
	return rows
}
