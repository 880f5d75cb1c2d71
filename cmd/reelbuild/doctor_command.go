package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelbuild/internal/preflight"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// checkNameWidth fits the longest check name ("State directory").
const checkNameWidth = 16

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the browser, encoder, assets and directories a build needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.projectConfig(root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			results := preflight.StatusFromConfig(cmd.Context(), cfg)
			report, failed := doctorReport(results, isTerminal(out))
			fmt.Fprint(out, report)
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Deliverables root directory (overrides paths.root_dir)")
	return cmd
}

// doctorReport renders one line per check, with the remediation hint of a
// failed check on the line below it, and returns the number of failures.
func doctorReport(results []preflight.Result, colorize bool) (string, int) {
	paint := func(code, s string) string {
		if !colorize {
			return s
		}
		return code + s + ansiReset
	}

	var b strings.Builder
	b.WriteString(paint(ansiBold, "Environment"))
	b.WriteString("\n")
	failed := 0
	for _, result := range results {
		mark := paint(ansiGreen, "ok  ")
		if !result.Passed {
			failed++
			mark = paint(ansiRed, "FAIL")
		}
		fmt.Fprintf(&b, "  %s  %-*s %s\n", mark, checkNameWidth, result.Name, result.Detail)
		if !result.Passed && result.Hint != "" {
			fmt.Fprintf(&b, "        %-*s hint: %s\n", checkNameWidth, "", result.Hint)
		}
	}
	b.WriteString("\n")
	if failed == 0 {
		b.WriteString(paint(ansiGreen, "Ready to build"))
	} else {
		b.WriteString(paint(ansiRed, fmt.Sprintf("%d check(s) failed", failed)))
	}
	b.WriteString("\n")
	return b.String(), failed
}
