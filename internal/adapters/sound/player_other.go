//go:build !darwin && !linux

package sound

// playForResult has no native player; the caller falls back to the terminal bell
func playForResult(success bool) bool {
	return false
}
