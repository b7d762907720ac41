package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application, lifted from the original palette.
var (
	colorHeader   = lipgloss.Color("#A8C459") // signature green
	colorAccent   = lipgloss.Color("#4A7C59") // deep green
	colorInk      = lipgloss.Color("#3D3D3D")
	colorMuted    = lipgloss.Color("241")
	colorFaint    = lipgloss.Color("240")
	colorBadge    = lipgloss.Color("#E85A5A") // "Best" badge red
	colorErr      = lipgloss.Color("196")
	colorCardText = lipgloss.Color("255")
)

// Header style for the green banner.
var Header = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorHeader).
	Padding(0, 2)

// Tagline under the header.
var Tagline = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 2)

// PillSelected is the active time pill.
var PillSelected = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorInk).
	Padding(0, 2)

// Pill is an inactive time pill.
var Pill = lipgloss.NewStyle().
	Foreground(colorCardText).
	Padding(0, 2)

// CardSelected is the highlighted menu card.
var CardSelected = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorAccent).
	Padding(0, 1)

// Card is an unselected menu card.
var Card = lipgloss.NewStyle().
	Foreground(colorCardText).
	Padding(0, 1)

// Badge style for the "Best" tag.
var Badge = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorBadge).
	Padding(0, 1)

// SectionTitle for screen section headers.
var SectionTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorFaint).
	Padding(0, 2)

// MoodTag for the small bucket/mood chips.
var MoodTag = lipgloss.NewStyle().
	Foreground(colorAccent).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// ReceiptCard frames the receipt.
var ReceiptCard = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorFaint).
	Padding(1, 3)

// ReceiptRule is the dashed separator inside the receipt.
var ReceiptRule = lipgloss.NewStyle().
	Foreground(colorFaint)

// MutedText for secondary lines.
var MutedText = lipgloss.NewStyle().
	Foreground(colorMuted)

// AccentText for emphasized fragments.
var AccentText = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorAccent)

// StatusBar style for the bottom help bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorErr).
	Bold(true).
	Padding(0, 1)

// SelectedRow highlights the active history entry.
var SelectedRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorAccent).
	Padding(0, 1)

// Row is an unselected history entry.
var Row = lipgloss.NewStyle().
	Foreground(colorCardText).
	Padding(0, 1)
