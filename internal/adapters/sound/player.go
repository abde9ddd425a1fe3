package sound

import (
	"fmt"
	"io"
	"os"
)

// Player signals the end of a run
type Player struct {
	bell io.Writer
}

// NewPlayer creates a new sound player
func NewPlayer() *Player {
	return &Player{bell: os.Stdout}
}

// Notify plays a completion sound, a different one when the run failed.
// Platform-specific implementations are in player_*.go files with build tags.
func (p *Player) Notify(success bool) error {
	if playForResult(success) {
		return nil
	}
	return p.terminalBell(success)
}

// terminalBell rings once on success and twice on failure
func (p *Player) terminalBell(success bool) error {
	bell := "\a"
	if !success {
		bell = "\a\a"
	}
	_, err := fmt.Fprint(p.bell, bell)
	return err
}
