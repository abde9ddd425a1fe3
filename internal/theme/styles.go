package theme

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/renato0307/shellbox/internal/domain"
)

// Main styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)
)

// Container state styles
var (
	MissingStyle = lipgloss.NewStyle().
			Foreground(ColorMissing)

	RunningStyle = lipgloss.NewStyle().
			Foreground(ColorRunning)

	StoppedStyle = lipgloss.NewStyle().
			Foreground(ColorStopped)
)

// Git change styles
var (
	AddedStyle = lipgloss.NewStyle().
			Foreground(ColorAdditions)

	DeletedStyle = lipgloss.NewStyle().
			Foreground(ColorDeletions)

	ModifiedStyle = lipgloss.NewStyle().
			Foreground(ColorModified)

	RenamedStyle = lipgloss.NewStyle().
			Foreground(ColorRenamed)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)
)

// Error style
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// WarningStyle highlights recoverable problems
var WarningStyle = lipgloss.NewStyle().
	Foreground(ColorWarning)

// ChangeStyle returns the style for a git change kind
func ChangeStyle(kind domain.ChangeKind) lipgloss.Style {
	switch kind {
	case domain.ChangeAdded:
		return AddedStyle
	case domain.ChangeDeleted:
		return DeletedStyle
	case domain.ChangeRenamed, domain.ChangeCopied:
		return RenamedStyle
	default:
		return ModifiedStyle
	}
}

// ExecutionStyle returns the style for a run status
func ExecutionStyle(status domain.ExecutionStatus) lipgloss.Style {
	switch {
	case status.IsCancelled():
		return lipgloss.NewStyle().Foreground(ColorCancelled)
	case status.State == domain.ExecutionSuccess:
		return lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	case status.State == domain.ExecutionFailed:
		return lipgloss.NewStyle().Foreground(ColorFailed).Bold(true)
	default:
		return NormalStyle
	}
}

// LevelStyle returns the style for a log level
func LevelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return ErrorStyle
	case level >= slog.LevelWarn:
		return WarningStyle
	default:
		return MutedStyle
	}
}
