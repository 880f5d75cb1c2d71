package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelbuild/internal/artifacts"
	"reelbuild/internal/pipeline"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var selection selectionOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which stages a build would run, without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.projectConfig(selection.root)
			if err != nil {
				return err
			}
			registry, err := registryFor(cfg)
			if err != nil {
				return err
			}
			runner := &pipeline.Runner{
				Registry: registry,
				Layout:   layoutFor(cfg),
				Oracle:   artifacts.FS{},
			}
			plan, err := runner.Plan(selection.flags(cfg))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderPlan(plan))
			return nil
		},
	}

	selection.bind(cmd)
	return cmd
}
