// Package export writes article references out as BibTeX.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/geoview/geoview/internal/article"
)

// Entry is one reference ready to be written, with its citation key.
type Entry struct {
	Key       string
	ArticleID string
	Ref       article.Reference
}

// Entries collects the references of articles in order and assigns each a
// citation key of the form Surname+Year. Keys that collide get a, b, c
// suffixes in order of appearance. References without a title are skipped.
func Entries(articles []article.Article) []Entry {
	var out []Entry
	seen := make(map[string]int)
	for _, a := range articles {
		for _, ref := range a.References {
			if strings.TrimSpace(ref.Title) == "" {
				continue
			}
			base := citationKey(ref)
			key := base
			if n := seen[base]; n > 0 {
				key = base + string(rune('a'+n-1))
			}
			seen[base]++
			out = append(out, Entry{Key: key, ArticleID: a.ID, Ref: ref})
		}
	}
	return out
}

// ToBibTeX renders one entry.
func ToBibTeX(e Entry) string {
	ref := e.Ref
	kind := entryType(ref)
	var b strings.Builder

	fmt.Fprintf(&b, "@%s{%s,\n", kind, e.Key)
	if authors := formatAuthors(ref.Authors); authors != "" {
		fmt.Fprintf(&b, "  author = {%s},\n", authors)
	}
	fmt.Fprintf(&b, "  title = {%s},\n", escapeLatex(ref.Title))
	if ref.Publication != "" {
		field := "journal"
		switch kind {
		case "inproceedings":
			field = "booktitle"
		case "book":
			field = "publisher"
		}
		fmt.Fprintf(&b, "  %s = {%s},\n", field, escapeLatex(ref.Publication))
	}
	if ref.Year != 0 {
		fmt.Fprintf(&b, "  year = {%d},\n", ref.Year)
	}
	if ref.DOI != "" {
		fmt.Fprintf(&b, "  doi = {%s},\n", ref.DOI)
	}
	if ref.URL != "" {
		fmt.Fprintf(&b, "  url = {%s},\n", ref.URL)
	}
	if e.ArticleID != "" {
		fmt.Fprintf(&b, "  note = {Cited in %s},\n", e.ArticleID)
	}
	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList renders entries separated by blank lines.
func ToBibTeXList(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, ToBibTeX(e))
	}
	return strings.Join(parts, "\n")
}

func entryType(ref article.Reference) string {
	venue := strings.ToLower(ref.Publication)
	switch {
	case strings.Contains(venue, "proceedings"),
		strings.Contains(venue, "conference"),
		strings.Contains(venue, "workshop"),
		strings.Contains(venue, "symposium"):
		return "inproceedings"
	case strings.Contains(venue, "press"),
		strings.Contains(venue, "books"),
		strings.Contains(venue, "publishing"):
		return "book"
	case ref.Publication == "" && ref.URL != "":
		return "misc"
	}
	return "article"
}

// citationKey is the first author's surname plus the year, ASCII letters
// only. Unknown parts fall back to "Anon" and "nd".
func citationKey(ref article.Reference) string {
	var surname strings.Builder
	if names := splitAuthors(ref.Authors); len(names) > 0 {
		last, _ := splitName(names[0])
		for _, r := range last {
			if r < unicode.MaxASCII && unicode.IsLetter(r) {
				surname.WriteRune(r)
			}
		}
	}
	key := surname.String()
	if key == "" {
		key = "Anon"
	}
	if ref.Year != 0 {
		return key + strconv.Itoa(ref.Year)
	}
	return key + "nd"
}

// splitAuthors breaks an author string on "&", ";" and " and ". Commas are
// left alone since they separate surnames from initials.
func splitAuthors(s string) []string {
	s = strings.NewReplacer("&", ";", " and ", ";").Replace(s)
	var out []string
	for _, part := range strings.Split(s, ";") {
		part = strings.Trim(strings.TrimSpace(part), ",")
		if part = strings.TrimSpace(part); part != "" && part != "et al." {
			out = append(out, part)
		}
	}
	return out
}

// splitName returns surname and given names from "Surname, Given" or
// "Given Surname".
func splitName(name string) (last, first string) {
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[len(fields)-1], strings.Join(fields[:len(fields)-1], " ")
}

// formatAuthors writes names as "Last, First and Last, First".
func formatAuthors(s string) string {
	names := splitAuthors(s)
	out := make([]string, 0, len(names))
	for _, n := range names {
		last, first := splitName(n)
		if first != "" {
			out = append(out, escapeLatex(last+", "+first))
		} else {
			out = append(out, escapeLatex(last))
		}
	}
	return strings.Join(out, " and ")
}

func escapeLatex(s string) string {
	return latexEscaper.Replace(s)
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)
