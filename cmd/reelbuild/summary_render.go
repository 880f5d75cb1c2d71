package main

import (
	"fmt"
	"strings"
	"time"

	"reelbuild/internal/pipeline"
	"reelbuild/internal/stage"
	"reelbuild/internal/staleness"
)

func stageHeaders(first string, extra ...string) []string {
	headers := []string{first}
	for _, n := range stage.Order {
		headers = append(headers, n.Label())
	}
	return append(headers, extra...)
}

func renderSummary(summary *pipeline.Summary) string {
	if summary == nil {
		return ""
	}
	var b strings.Builder

	if len(summary.Formats) > 0 {
		rows := make([][]string, 0, len(summary.Formats))
		for _, result := range summary.Formats {
			row := []string{result.Format}
			for _, n := range stage.Order {
				row = append(row, string(result.Outcome(n)))
			}
			row = append(row, string(result.State))
			rows = append(rows, row)
		}
		b.WriteString(renderTable(stageHeaders("Format", "State"), rows))
		b.WriteString("\n")
	}

	status := "succeeded"
	if !summary.Succeeded {
		status = "failed"
	}
	fmt.Fprintf(&b, "Run %s %s in %s (%d executed, %d skipped)\n",
		shortID(summary.RunID),
		status,
		formatDuration(summary.Duration()),
		summary.Count(stage.OutcomeExecuted),
		summary.Count(stage.OutcomeSkipped),
	)
	if summary.ManifestPath != "" {
		fmt.Fprintf(&b, "Manifest: %s\n", summary.ManifestPath)
	}
	if len(summary.PrunedFrames) > 0 {
		fmt.Fprintf(&b, "Removed frames: %s\n", strings.Join(summary.PrunedFrames, ", "))
	}
	return b.String()
}

func renderPlan(plan staleness.Plan) string {
	rows := make([][]string, 0, len(plan.Formats))
	for _, fp := range plan.Formats {
		row := []string{fp.Format.Key}
		for _, n := range stage.Order {
			row = append(row, decisionLabel(fp.Decision(n)))
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	b.WriteString(renderTable(stageHeaders("Format"), rows))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Browser needed: %s\n", yesNo(plan.BrowserNeeded))
	fmt.Fprintf(&b, "Encoder needed: %s\n", yesNo(plan.VideoNeeded))
	fmt.Fprintf(&b, "Audio needed: %s\n", yesNo(plan.AudioNeeded))
	if !plan.AnyWork() {
		b.WriteString("Everything is up to date\n")
	}
	return b.String()
}

func decisionLabel(d staleness.Decision) string {
	verb := "skip"
	if d.Needed {
		verb = "run"
	}
	return fmt.Sprintf("%s (%s)", verb, d.Reason)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
