// Package pdf pulls citation metadata out of paper PDFs.
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// scanPages is how many leading pages are searched. DOIs and titles sit on
// the first page in nearly every layout.
const scanPages = 3

// minTitleLen skips running heads and page numbers when guessing a title.
const minTitleLen = 20

var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// Info is what could be recovered from a PDF. Empty fields were not found.
type Info struct {
	DOI   string `json:"doi,omitempty"`
	Title string `json:"title,omitempty"`
	Pages int    `json:"pages"`
}

// Inspect reads the first pages of the PDF at path and extracts its DOI
// and a best-effort title. A PDF with neither is not an error.
func Inspect(path string) (Info, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info := Info{Pages: r.NumPage()}
	for i := 1; i <= min(scanPages, r.NumPage()); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i == 1 {
			info.Title = guessTitle(text)
		}
		if info.DOI == "" {
			info.DOI = FindDOI(text)
		}
		if info.DOI != "" && info.Title != "" {
			break
		}
	}
	return info, nil
}

// FindDOI returns the first plausible DOI in text, without trailing
// punctuation.
func FindDOI(text string) string {
	for _, m := range doiPattern.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".,;:)")
		if validDOI(m) {
			return m
		}
	}
	return ""
}

func validDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash != -1 && slash < len(doi)-1
}

// guessTitle takes the first long line that is not a running head.
func guessTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if len(line) >= minTitleLen && !runningHead(line) {
			return line
		}
	}
	return ""
}

func runningHead(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"),
		strings.Contains(lower, "copyright"),
		strings.Contains(lower, "doi:"),
		strings.HasPrefix(lower, "http"):
		return true
	case strings.Contains(lower, "volume") && strings.Contains(lower, "issue"):
		return true
	case strings.Contains(lower, "article") && strings.Contains(lower, "published"):
		return true
	}
	return false
}
