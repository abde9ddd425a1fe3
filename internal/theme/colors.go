package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - section headers
)

// Container state colors
const (
	ColorMissing Color = "1" // Red - container gone
	ColorRunning Color = "2" // Green - container up
	ColorStopped Color = "8" // Gray - container exited
)

// Execution status colors
const (
	ColorCancelled Color = "3"   // Yellow
	ColorFailed    Color = "196" // Bright red
	ColorSuccess   Color = "46"  // Bright green
)

// UI semantic colors
const (
	ColorError     Color = "196" // Bright red
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
	ColorWarning   Color = "214" // Orange
)

// Git colors
const (
	ColorAdditions Color = "2"  // Green
	ColorDeletions Color = "1"  // Red
	ColorModified  Color = "3"  // Yellow
	ColorRenamed   Color = "33" // Blue
)
