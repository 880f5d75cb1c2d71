// Package staleness decides, per format and per stage, whether a stage's
// output must be produced this run.
//
// A stage is needed when it is not excluded and either the run is forced or
// the stage's defining artifact is missing. Only existence is checked; a
// changed page or audio file is invisible until its outputs are deleted or
// the run is forced.
//
// Frames are an intermediate consumed solely by encode. When the silent video
// already exists and is not being rebuilt, missing frames do not trigger a
// render, so pruned frame directories stay pruned across runs.
package staleness
