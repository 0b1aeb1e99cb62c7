package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFiltered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("hello\n\nWorld\n  typing  \nco-op\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	words, err := LoadFiltered(path, FilterForLang("en"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(words) != 2 || words[0] != "hello" || words[1] != "typing" {
		t.Fatalf("unexpected words %v", words)
	}
	all, err := LoadWords(path)
	if err != nil || len(all) != 4 {
		t.Fatalf("expected 4 words, got %v %v", all, err)
	}
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
