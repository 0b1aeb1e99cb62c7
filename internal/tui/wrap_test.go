package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/diff"
	"github.com/verte-zerg/typemaster/internal/model"
)

func testStyles() styles {
	return newStyles("dark", true)
}

func TestBuildStyledRunesCursor(t *testing.T) {
	target := []rune("ab")
	st := testStyles()
	runes := buildStyledRunes(target, diff.ClassifyAll(target, []rune("a")), st)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].status != model.CharCorrect || runes[0].s != st.correct.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].status != model.CharCurrent || runes[1].s != st.currentWord.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	target := []rune("ab")
	st := testStyles()
	runes := buildStyledRunes(target, diff.ClassifyAll(target, []rune("ax")), st)
	if runes[1].status != model.CharIncorrect || runes[1].display != 'b' {
		t.Fatalf("expected reference rune shown as incorrect, got %+v", runes[1])
	}
	if runes[1].s != st.incorrect.Render("b") {
		t.Fatalf("expected incorrect style for second rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	target := []rune("one two")
	st := testStyles()
	runes := buildStyledRunes(target, diff.ClassifyAll(target, []rune("o")), st)
	if runes[0].s != st.correct.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[2].s != st.currentWord.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].status != model.CharPending || runes[4].s != st.pending.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	target := []rune("a b")
	runes := buildStyledRunes(target, diff.ClassifyAll(target, []rune("ax")), testStyles())
	if runes[1].display != '•' {
		t.Fatalf("expected dot for wrong space, got %q", runes[1].display)
	}
	plain := buildStyledRunes(target, diff.ClassifyAll(target, []rune("ax")), newStyles("dark", false))
	if plain[1].display != ' ' {
		t.Fatalf("expected plain space without error highlighting, got %q", plain[1].display)
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	target := []rune("aaa bbb ccc")
	runes := buildStyledRunes(target, diff.ClassifyAll(target, nil), testStyles())
	wrapped := wrapStyledRunes(runes, 7)
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), wrapped)
	}
	for _, line := range lines {
		if w := lipgloss.Width(line); w > 7 {
			t.Fatalf("line exceeds width: %d", w)
		}
	}
}

func TestWrapStyledRunesWideRunes(t *testing.T) {
	target := []rune("日本語日本語")
	runes := buildStyledRunes(target, diff.ClassifyAll(target, nil), testStyles())
	wrapped := wrapStyledRunes(runes, 4)
	if n := len(strings.Split(wrapped, "\n")); n != 3 {
		t.Fatalf("expected 3 lines for wide runes, got %d: %q", n, wrapped)
	}
}
