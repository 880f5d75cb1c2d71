package staleness

import (
	"reelbuild/internal/artifacts"
	"reelbuild/internal/formats"
	"reelbuild/internal/stage"
)

// Reason explains a Decision.
type Reason string

const (
	ReasonExcluded  Reason = "excluded"
	ReasonForced    Reason = "forced"
	ReasonMissing   Reason = "missing"
	ReasonUpToDate  Reason = "up_to_date"
	ReasonNotNeeded Reason = "not_needed"
)

// Decision is the verdict for one stage of one format.
type Decision struct {
	Needed bool
	Reason Reason
}

// Options carries the run flags that influence staleness.
type Options struct {
	Force bool
	Skip  map[stage.Name]bool
}

// FormatPlan holds the four stage decisions for one format.
type FormatPlan struct {
	Format formats.Format
	Render Decision
	Encode Decision
	Mux    Decision
	Still  Decision
}

// Decision returns the verdict for stage n.
func (p FormatPlan) Decision(n stage.Name) Decision {
	switch n {
	case stage.Render:
		return p.Render
	case stage.Encode:
		return p.Encode
	case stage.Mux:
		return p.Mux
	case stage.Still:
		return p.Still
	default:
		return Decision{}
	}
}

// Needed reports whether stage n must run.
func (p FormatPlan) Needed(n stage.Name) bool {
	return p.Decision(n).Needed
}

// Plan is the per-run staleness verdict for every selected format.
type Plan struct {
	Formats       []FormatPlan
	BrowserNeeded bool
	VideoNeeded   bool
	AudioNeeded   bool
}

// AnyWork reports whether at least one stage of one format must run.
func (p Plan) AnyWork() bool {
	for _, fp := range p.Formats {
		for _, n := range stage.Order {
			if fp.Needed(n) {
				return true
			}
		}
	}
	return false
}

// Resolve computes the plan from the current artifact state. Render is the
// one stage that is not decided by its own output alone: missing frames are
// not re-captured while the silent video they feed is up to date.
func Resolve(selected []formats.Format, opts Options, layout artifacts.Layout, oracle artifacts.Oracle) Plan {
	if oracle == nil {
		oracle = artifacts.FS{}
	}
	plan := Plan{Formats: make([]FormatPlan, 0, len(selected))}
	for _, f := range selected {
		fp := FormatPlan{Format: f}
		fp.Encode = decide(opts, stage.Encode, oracle.Exists(layout.SilentVideo(f.Key)))
		fp.Mux = decide(opts, stage.Mux, oracle.Exists(layout.FinalVideo(f.Key)))
		fp.Still = decide(opts, stage.Still, oracle.Exists(layout.Still(f.Key)))
		fp.Render = decide(opts, stage.Render, oracle.Exists(layout.FramePath(f.Key, 0)))
		if fp.Render.Needed && fp.Render.Reason == ReasonMissing && fp.Encode.Reason == ReasonUpToDate {
			fp.Render = Decision{Reason: ReasonNotNeeded}
		}

		plan.BrowserNeeded = plan.BrowserNeeded || fp.Render.Needed || fp.Still.Needed
		plan.VideoNeeded = plan.VideoNeeded || fp.Encode.Needed || fp.Mux.Needed
		plan.AudioNeeded = plan.AudioNeeded || fp.Mux.Needed
		plan.Formats = append(plan.Formats, fp)
	}
	return plan
}

func decide(opts Options, n stage.Name, exists bool) Decision {
	switch {
	case opts.Skip[n]:
		return Decision{Reason: ReasonExcluded}
	case opts.Force:
		return Decision{Needed: true, Reason: ReasonForced}
	case exists:
		return Decision{Reason: ReasonUpToDate}
	default:
		return Decision{Needed: true, Reason: ReasonMissing}
	}
}
