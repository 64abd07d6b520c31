package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Common styles that can be used across the application
var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	ComponentStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	ScriptStyle = lipgloss.NewStyle().
			Foreground(ColorOrange).
			Bold(true)

	BindingStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ImportStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	MarkerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	ClassStyle = lipgloss.NewStyle().
			Foreground(ColorPurple)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// ScriptText styles a script name
func ScriptText(text string) string {
	return ScriptStyle.Render(text)
}

// BindingText styles a binding name
func BindingText(text string) string {
	return BindingStyle.Render(text)
}

// ImportText styles an import declaration
func ImportText(text string) string {
	return ImportStyle.Render(text)
}

// MarkerText styles a marker such as @Inject
func MarkerText(text string) string {
	return MarkerStyle.Render(text)
}

// ClassText styles a fully-qualified class name
func ClassText(text string) string {
	return ClassStyle.Render(text)
}

// ValidText styles valid status text (green)
func ValidText(text string) string {
	return BindingStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// CountText styles count numbers (cyan)
func CountText(text string) string {
	return ComponentStyle.Render(text)
}
