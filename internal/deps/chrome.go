package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// chromeCandidates lists the executable names probed on PATH when no explicit
// browser path is configured.
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// macChromePaths are probed after PATH on darwin.
var macChromePaths = []string{
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// ResolveChrome reports the headless browser the renderer will launch.
//
// An explicit path wins and must exist. Otherwise the well-known browser names
// are resolved from PATH in order, followed by the standard macOS bundle
// locations.
func ResolveChrome(configured string) Status {
	result := Status{
		Name:        "Chrome",
		Description: "Headless browser used to capture frames and stills",
	}

	if explicit := strings.TrimSpace(configured); explicit != "" {
		result.Command = explicit
		resolved, err := exec.LookPath(explicit)
		if err != nil {
			result.Detail = fmt.Sprintf("browser %q not found", explicit)
			return result
		}
		result.Command = resolved
		result.Available = true
		return result
	}

	for _, name := range chromeCandidates {
		if resolved, err := exec.LookPath(name); err == nil {
			result.Command = resolved
			result.Available = true
			return result
		}
	}
	if runtime.GOOS == "darwin" {
		for _, candidate := range macChromePaths {
			if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
				result.Command = candidate
				result.Available = true
				return result
			}
		}
	}

	result.Command = chromeCandidates[0]
	result.Detail = "no Chrome or Chromium executable found; set render.chrome_path or REELBUILD_CHROME_PATH"
	return result
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
