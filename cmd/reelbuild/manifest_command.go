package main

import (
	"errors"

	"github.com/spf13/cobra"

	"reelbuild/internal/manifest"
	"reelbuild/internal/services"
)

func newManifestCommand(ctx *commandContext) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the manifest written by the last successful build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.projectConfig(root)
			if err != nil {
				return err
			}
			m, err := manifest.Read(layoutFor(cfg).ManifestPath())
			if err != nil {
				if errors.Is(err, manifest.ErrNotFound) {
					return services.WithHint(err, "run `reelbuild build` first")
				}
				return err
			}
			return writeJSON(cmd.OutOrStdout(), m)
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Deliverables root directory (overrides paths.root_dir)")
	return cmd
}
