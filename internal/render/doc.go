// Package render captures animation frames and still images from the
// festival page in a headless browser.
//
// The page is driven deterministically: it is opened with ?render=1 and the
// format key, then window.__renderAt(t) is called for each frame time before a
// viewport screenshot is taken. A Renderer hands out one Session per build;
// the session owns the browser process and must be closed exactly once.
package render
