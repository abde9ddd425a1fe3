//go:build windows

package editor

var defaultEditors = []string{
	"notepad.exe",
}
