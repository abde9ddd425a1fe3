//go:build linux

package sound

import "os/exec"

// playForResult tries the freedesktop sound theme through paplay
func playForResult(success bool) bool {
	soundFile := "/usr/share/sounds/freedesktop/stereo/complete.oga"
	if !success {
		soundFile = "/usr/share/sounds/freedesktop/stereo/dialog-error.oga"
	}
	if _, err := exec.LookPath("paplay"); err != nil {
		return false
	}
	return exec.Command("paplay", soundFile).Start() == nil
}
