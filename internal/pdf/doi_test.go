package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "see 10.1002/qj.49710845502 for details", "10.1002/qj.49710845502"},
		{"trailing punctuation", "(doi: 10.1038/nature12373).", "10.1038/nature12373"},
		{"url form", "https://doi.org/10.1126/science.1259855", "10.1126/science.1259855"},
		{"first of several", "10.1000/abc123 and 10.2000/def456", "10.1000/abc123"},
		{"too short prefix", "10.12/abc", ""},
		{"none", "no identifiers here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestGuessTitle(t *testing.T) {
	text := "Journal of Urban Climate\nVol 3\n  The   energetic basis of the urban heat island  \nT. R. Oke\n"
	if got, want := guessTitle(text), "The energetic basis of the urban heat island"; got != want {
		t.Errorf("guessTitle = %q, want %q", got, want)
	}
	if got := guessTitle("short\nlines\nonly"); got != "" {
		t.Errorf("guessTitle = %q, want empty", got)
	}
}

func TestRunningHead(t *testing.T) {
	heads := []string{
		"Quarterly Journal of the Royal Meteorological Society",
		"Copyright 1982 Royal Meteorological Society",
		"Volume 108, Issue 455, pages 1-24",
		"This article was published online in 2006",
		"https://rmets.onlinelibrary.wiley.com",
	}
	for _, h := range heads {
		if !runningHead(h) {
			t.Errorf("runningHead(%q) = false", h)
		}
	}
	if runningHead("Urban heat islands across two hundred cities") {
		t.Error("title taken for a running head")
	}
}

func TestInspectRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("plain text, not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(path); err == nil {
		t.Error("Inspect accepted a file that is not a PDF")
	}
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Inspect accepted a missing file")
	}
}
