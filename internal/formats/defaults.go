package formats

var (
	defaultAnchors = Anchors{HeaderTopPct: 0.08, MiddlePct: 0.50, FooterBottomPct: 0.07}
	defaultSafe    = SafeArea{TopPct: 0.10, BottomPct: 0.10}
)

// Builtin returns the stock vertical, portrait and square formats.
func Builtin() []Format {
	return []Format{
		{Key: "9x16", Width: 1080, Height: 1920, FPS: 60, Duration: 10.0, Anchors: defaultAnchors, Safe: defaultSafe, ScaleRefHeight: 1920},
		{Key: "4x5", Width: 1080, Height: 1350, FPS: 60, Duration: 10.0, Anchors: defaultAnchors, Safe: defaultSafe, ScaleRefHeight: 1920},
		{Key: "1x1", Width: 1080, Height: 1080, FPS: 60, Duration: 10.0, Anchors: defaultAnchors, Safe: defaultSafe, ScaleRefHeight: 1920},
	}
}

// Default returns a registry holding the built-in formats.
func Default() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic("formats: invalid builtin registry: " + err.Error())
	}
	return r
}
