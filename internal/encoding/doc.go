// Package encoding drives ffmpeg for the two video stages of a build.
//
// EncodeSilent turns a numbered PNG frame sequence into an H.264 MP4 with no
// audio. MuxAudio copies that video stream and adds an AAC track from the
// shared soundtrack, cut to the shorter input. Both write to a temporary file
// beside the destination and rename on success, so an interrupted run never
// leaves a truncated artifact that later runs would trust.
//
// Command execution goes through a CommandRunner so tests can capture argument
// lists without an ffmpeg install.
package encoding
