package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	correct     string
	incorrect   string
	pending     string
	currentWord string
	muted       string
	accent      string
}

var palettes = map[string]palette{
	"dark": {
		correct:     "#F0F0F0",
		incorrect:   "#FF4D4F",
		pending:     "#8C8C8C",
		currentWord: "#C89A3A",
		muted:       "#6E6E6E",
		accent:      "#7FB77E",
	},
	"light": {
		correct:     "#1F1F1F",
		incorrect:   "#C62828",
		pending:     "#9E9E9E",
		currentWord: "#8D5A00",
		muted:       "#757575",
		accent:      "#2E7D32",
	},
}

type styles struct {
	correct     lipgloss.Style
	incorrect   lipgloss.Style
	pending     lipgloss.Style
	currentWord lipgloss.Style
	footer      lipgloss.Style
	title       lipgloss.Style
	good        lipgloss.Style
	bad         lipgloss.Style
	// markSpaces replaces mistyped spaces with a visible dot.
	markSpaces bool
}

func newStyles(theme string, highlightErrors bool) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes["dark"]
	}
	st := styles{
		correct:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.correct)),
		incorrect:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.incorrect)),
		pending:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.pending)),
		currentWord: lipgloss.NewStyle().Foreground(lipgloss.Color(p.currentWord)),
		footer:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent)),
		good:        lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)),
		bad:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.incorrect)),
		markSpaces:  highlightErrors,
	}
	if !highlightErrors {
		st.incorrect = st.correct
	}
	return st
}
