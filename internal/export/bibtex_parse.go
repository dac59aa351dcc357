package export

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

var (
	entryStartRe = regexp.MustCompile(`@\w+\s*\{\s*([^,\s]+)\s*,`)
	doiFieldRe   = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// Index records the keys and DOIs already present in a .bib file.
type Index struct {
	keys map[string]bool
	dois map[string]string // normalized DOI -> key
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{keys: make(map[string]bool), dois: make(map[string]string)}
}

// Has reports whether e is already in the file. A DOI match wins; entries
// without a DOI fall back to the citation key.
func (idx *Index) Has(e Entry) bool {
	if e.Ref.DOI != "" {
		if _, ok := idx.dois[normalizeDOI(e.Ref.DOI)]; ok {
			return true
		}
	}
	return idx.keys[e.Key]
}

// Add records e so later duplicates in the same run are caught.
func (idx *Index) Add(e Entry) {
	idx.keys[e.Key] = true
	if e.Ref.DOI != "" {
		idx.dois[normalizeDOI(e.Ref.DOI)] = e.Key
	}
}

// Len returns the number of keys seen.
func (idx *Index) Len() int {
	return len(idx.keys)
}

// ParseFile indexes an existing .bib file. A missing file gives an empty
// index.
func ParseFile(path string) (*Index, error) {
	idx := NewIndex()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var key string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if m := entryStartRe.FindStringSubmatch(line); m != nil {
			key = m[1]
			idx.keys[key] = true
		}
		if m := doiFieldRe.FindStringSubmatch(line); m != nil && key != "" {
			if doi := normalizeDOI(m[1]); doi != "" {
				idx.dois[doi] = key
			}
		}
	}
	return idx, sc.Err()
}

// Filter drops the entries already in idx, adding the rest to it.
func (idx *Index) Filter(entries []Entry) (fresh []Entry, skipped int) {
	for _, e := range entries {
		if idx.Has(e) {
			skipped++
			continue
		}
		idx.Add(e)
		fresh = append(fresh, e)
	}
	return fresh, skipped
}

func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi.org/", "DOI:", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.ToLower(strings.TrimSpace(doi))
}

// AppendFile appends content to the .bib file at path, creating it if
// needed.
func AppendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString("\n" + content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
