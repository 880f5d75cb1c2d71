// Package pipeline orchestrates a build: it resolves the format selection,
// plans which stages are stale, checks run-wide preconditions once, and then
// drives each format through Render, Encode, Mux and Still in order.
//
// One renderer session is acquired per run, only when some stage needs the
// browser, and it is released on every exit path. The first stage failure
// aborts the run; formats not yet started stay not_started and their stages
// are reported as not_reached. Frames are pruned and the manifest is written
// only after every selected format succeeded.
package pipeline
