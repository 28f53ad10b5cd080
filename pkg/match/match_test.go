package match_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langdiff/pkg/compare"
	"github.com/dmitrymomot/langdiff/pkg/jsonv"
	"github.com/dmitrymomot/langdiff/pkg/keypath"
	"github.com/dmitrymomot/langdiff/pkg/match"
)

func newReport(t *testing.T) *compare.Report {
	t.Helper()

	langs := []compare.Language{
		{Name: "en", Flat: keypath.Flatten(jsonv.MustParse(`{
			"menu": {"open": "Open file", "save": "Save"},
			"greeting": "Hello",
			"summer": "Summer"
		}`))},
		{Name: "fr", Flat: keypath.Flatten(jsonv.MustParse(`{
			"menu": {"open": "Ouvrir le fichier"},
			"greeting": "Bonjour",
			"summer": "Été",
			"orphan": "Orphelin"
		}`))},
	}
	s, err := compare.NewSession(langs, compare.WithPrimary("en"))
	require.NoError(t, err)
	return s.Report()
}

func keys(results []match.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Record.Key
	}
	return out
}

func TestSearch(t *testing.T) {
	t.Parallel()

	e := match.New(newReport(t))
	require.Equal(t, match.DefaultThreshold, e.Threshold())

	t.Run("empty query returns everything in order", func(t *testing.T) {
		t.Parallel()

		got := e.Search("", match.All)
		require.Equal(t, []string{"menu.open", "menu.save", "greeting", "summer", "orphan"}, keys(got))
	})

	t.Run("matches keys", func(t *testing.T) {
		t.Parallel()

		got := e.Search("menu", match.All)
		require.Equal(t, []string{"menu.open", "menu.save"}, keys(got))
		require.Zero(t, got[0].Score)
	})

	t.Run("matches values of any language", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, []string{"greeting"}, keys(e.Search("bonjour", match.All)))
		require.Equal(t, []string{"menu.open"}, keys(e.Search("fichier", match.All)))
	})

	t.Run("ignores case and diacritics", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, []string{"summer"}, keys(e.Search("ETE", match.All)))
	})

	t.Run("tolerates typos", func(t *testing.T) {
		t.Parallel()

		got := e.Search("greetinq", match.All)
		require.Equal(t, []string{"greeting"}, keys(got))
		require.Greater(t, got[0].Score, 0.0)
		require.LessOrEqual(t, got[0].Score, match.DefaultThreshold)
	})

	t.Run("exact matches rank before fuzzy ones", func(t *testing.T) {
		t.Parallel()

		got := e.Search("save", match.All)
		require.NotEmpty(t, got)
		require.Equal(t, "menu.save", got[0].Record.Key)
	})

	t.Run("unrelated query matches nothing", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, e.Search("zzzzqqq", match.All))
	})

	t.Run("status filter", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, []string{"menu.save"}, keys(e.Search("", match.Only(compare.StatusIncomplete))))
		require.Equal(t, []string{"orphan"}, keys(e.Search("", match.Only(compare.StatusError))))
		require.Empty(t, e.Search("orphan", match.Only(compare.StatusTranslated)))
	})

	t.Run("filtered report recomputes counts", func(t *testing.T) {
		t.Parallel()

		r := e.Report("menu", match.All)
		require.Equal(t, 2, r.Counts.Total)
		require.Equal(t, 1, r.Counts.Translated)
		require.Equal(t, 1, r.Counts.Incomplete)
	})
}

func TestThreshold(t *testing.T) {
	t.Parallel()

	report := newReport(t)

	strict := match.New(report, match.WithThreshold(0))
	require.Empty(t, strict.Search("greetinq", match.All))

	ignored := match.New(report, match.WithThreshold(2))
	require.Equal(t, match.DefaultThreshold, ignored.Threshold())
}

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"empty query", "", "anything", 0},
		{"substring", "open", "menu.open", 0},
		{"one substitution", "opem", "menu.open", 0.25},
		{"empty text", "abc", "", 1},
		{"unrelated", "abc", "xyz", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.InDelta(t, tt.want, match.Score(tt.query, tt.text), 1e-9)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ete", match.Normalize("Été"))
	require.Equal(t, "strasse", match.Normalize("STRASSE"))
	require.Equal(t, "naive cafe", match.Normalize("Naïve Café"))
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"":             "all",
		"all":          "all",
		"translated":   "translated",
		"incomplete":   "incomplete",
		"error":        "error",
		"unclassified": "unclassified",
	} {
		f, err := match.ParseFilter(in)
		require.NoError(t, err, in)
		require.Equal(t, want, f.String())
	}

	_, err := match.ParseFilter("broken")
	require.ErrorIs(t, err, match.ErrInvalidFilter)

	require.True(t, match.All.Match(compare.StatusError))
	require.False(t, match.Only(compare.StatusError).Match(compare.StatusTranslated))
}
