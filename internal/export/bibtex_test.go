package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoview/geoview/internal/article"
)

func oke() article.Reference {
	return article.Reference{
		ID:          1,
		Authors:     "Oke, T. R.",
		Year:        1982,
		Title:       "The energetic basis of the urban heat island",
		Publication: "Quarterly Journal of the Royal Meteorological Society",
		DOI:         "10.1002/qj.49710845502",
	}
}

func TestToBibTeX(t *testing.T) {
	got := ToBibTeX(Entry{Key: "Oke1982", ArticleID: "urban-heat", Ref: oke()})

	assert.True(t, strings.HasPrefix(got, "@article{Oke1982,\n"), got)
	assert.Contains(t, got, "  author = {Oke, T. R.},\n")
	assert.Contains(t, got, "  title = {The energetic basis of the urban heat island},\n")
	assert.Contains(t, got, "  journal = {Quarterly Journal of the Royal Meteorological Society},\n")
	assert.Contains(t, got, "  year = {1982},\n")
	assert.Contains(t, got, "  doi = {10.1002/qj.49710845502},\n")
	assert.Contains(t, got, "  note = {Cited in urban-heat},\n")
	assert.NotContains(t, got, "url =")
	assert.True(t, strings.HasSuffix(got, "}\n"))
}

func TestEntryType(t *testing.T) {
	tests := []struct {
		name string
		ref  article.Reference
		want string
	}{
		{"journal", article.Reference{Publication: "Nature"}, "article"},
		{"proceedings", article.Reference{Publication: "Proceedings of the AAG Conference"}, "inproceedings"},
		{"book", article.Reference{Publication: "Oxford University Press"}, "book"},
		{"web only", article.Reference{URL: "https://example.org/report"}, "misc"},
		{"nothing", article.Reference{}, "article"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entryType(tt.ref))
		})
	}
}

func TestBooktitleForProceedings(t *testing.T) {
	ref := article.Reference{Authors: "Chen, S.", Year: 2020, Title: "Heat", Publication: "Proceedings of ICUC"}
	got := ToBibTeX(Entry{Key: "Chen2020", Ref: ref})
	assert.Contains(t, got, "booktitle = {Proceedings of ICUC}")
	assert.NotContains(t, got, "journal =")
	assert.NotContains(t, got, "note =")
}

func TestPublisherForBooks(t *testing.T) {
	ref := article.Reference{Authors: "Frankopan, Peter", Year: 2015, Title: "The Silk Roads", Publication: "Bloomsbury Publishing"}
	got := ToBibTeX(Entry{Key: "Frankopan2015", Ref: ref})
	assert.True(t, strings.HasPrefix(got, "@book{Frankopan2015,\n"))
	assert.Contains(t, got, "publisher = {Bloomsbury Publishing}")
	assert.NotContains(t, got, "journal =")
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Oke, T. R.", "Oke, T. R."},
		{"Smith, J., & Doe, A.", "Smith, J. and Doe, A."},
		{"Sarah Chen and Wei Zhang", "Chen, Sarah and Zhang, Wei"},
		{"Frankopan; Hansen", "Frankopan and Hansen"},
		{"World Bank", "Bank, World"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAuthors(tt.in), "formatAuthors(%q)", tt.in)
	}
}

func TestEntriesKeys(t *testing.T) {
	articles := []article.Article{
		{ID: "urban-heat", References: []article.Reference{
			oke(),
			{ID: 2, Authors: "Oke, T.", Year: 1982, Title: "Another 1982 paper"},
			{ID: 3, Authors: "", Year: 0, Title: "Anonymous pamphlet"},
			{ID: 4, Authors: "Nobody", Title: "  "},
		}},
		{ID: "river-deltas", References: []article.Reference{
			{ID: 1, Authors: "Syvitski, J. P. M.", Year: 2009, Title: "Sinking deltas"},
			{ID: 2, Authors: "Müller, K.", Year: 2015, Title: "Umlaut"},
		}},
	}
	entries := Entries(articles)
	require.Len(t, entries, 5)

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"Oke1982", "Oke1982a", "Anonnd", "Syvitski2009", "Mller2015"}, keys)
	assert.Equal(t, "river-deltas", entries[3].ArticleID)
}

func TestEscapeLatex(t *testing.T) {
	assert.Equal(t, `Heat \& Health: 50\% of \$ \#1 a\_b \{x\}`, escapeLatex("Heat & Health: 50% of $ #1 a_b {x}"))
	assert.Equal(t, `a\textbackslash{}b`, escapeLatex(`a\b`))
	assert.Equal(t, `\textasciitilde{}\textasciicircum{}`, escapeLatex("~^"))
}

func TestParseFileAndFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")
	existing := `@article{Oke1982,
  author = {Oke, T. R.},
  doi = {https://doi.org/10.1002/QJ.49710845502},
}

@book{ Frankopan2015 ,
  title = {The Silk Roads},
}
`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	idx, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	renamed := Entry{Key: "Different1982", Ref: oke()}
	assert.True(t, idx.Has(renamed), "DOI match should win over key")
	assert.True(t, idx.Has(Entry{Key: "Frankopan2015"}))
	assert.False(t, idx.Has(Entry{Key: "Syvitski2009"}))

	fresh, skipped := idx.Filter([]Entry{
		renamed,
		{Key: "Syvitski2009", Ref: article.Reference{Title: "Sinking deltas"}},
		{Key: "Syvitski2009", Ref: article.Reference{Title: "Sinking deltas"}},
	})
	assert.Equal(t, 2, skipped)
	require.Len(t, fresh, 1)
	assert.Equal(t, "Syvitski2009", fresh[0].Key)
}

func TestParseFileMissing(t *testing.T) {
	idx, err := ParseFile(filepath.Join(t.TempDir(), "none.bib"))
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestAppendFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bib")
	require.NoError(t, AppendFile(path, "@misc{A,\n}\n"))
	require.NoError(t, AppendFile(path, "@misc{B,\n}\n"))

	idx, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}
