package render

import (
	"fmt"

	"github.com/dmitrymomot/langdiff/pkg/compare"
	"github.com/dmitrymomot/langdiff/pkg/jsonv"
	"github.com/dmitrymomot/langdiff/pkg/keypath"
)

// Subtree rebuilds the minimal nested document holding lang's value for rec.
// For key "menu.items[0].label" it returns {"menu":{"items":[{"label":...}]}}.
func Subtree(r *compare.Report, rec compare.Record, lang string) (jsonv.Value, error) {
	i := r.LanguageIndex(lang)
	if i < 0 {
		return jsonv.Value{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if i >= len(rec.Cells) || !rec.Cells[i].Present {
		return jsonv.Value{}, fmt.Errorf("%w: %s[%s]", ErrNoValue, rec.Key, lang)
	}
	return keypath.UnflattenPath(rec.Key, rec.Cells[i].Value)
}
