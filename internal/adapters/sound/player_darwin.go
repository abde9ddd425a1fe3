//go:build darwin

package sound

import "os/exec"

// playForResult plays sounds on macOS using afplay
func playForResult(success bool) bool {
	soundFile := "/System/Library/Sounds/Glass.aiff"
	if !success {
		soundFile = "/System/Library/Sounds/Basso.aiff"
	}
	return exec.Command("afplay", soundFile).Start() == nil
}
