package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			registry, err := registryFor(cfg)
			if err != nil {
				return err
			}
			list := registry.List()
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), list)
			}

			rows := make([][]string, 0, len(list))
			for _, f := range list {
				rows = append(rows, []string{
					f.Key,
					f.AspectLabel(),
					strconv.Itoa(f.FPS),
					strconv.FormatFloat(f.Duration, 'f', -1, 64) + "s",
					strconv.Itoa(f.FrameCount()),
				})
			}
			headers := []string{"Key", "Size", "FPS", "Duration", "Frames"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 2, 3, 4))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print formats as JSON")
	return cmd
}
