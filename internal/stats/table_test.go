package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Lesson", "WPM", "Accuracy"}
	rows := [][]string{
		{"en-bg-01", "42", "97%"},
		{"en-int-03", "7", "100%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Lesson    WPM Accuracy" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "en-bg-01   42      97%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "en-int-03   7     100%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableTrimsTrailingPadding(t *testing.T) {
	lines := formatTable([]string{"A", "B"}, [][]string{{"long value", ""}}, nil)
	if lines[1] != "long value" {
		t.Fatalf("expected trailing padding trimmed, got %q", lines[1])
	}
}
