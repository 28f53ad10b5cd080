package match

import (
	"fmt"

	"github.com/dmitrymomot/langdiff/pkg/compare"
)

// Filter restricts search results by record status.
// The zero Filter matches every record.
type Filter struct {
	status compare.Status
	only   bool
}

// All matches every status.
var All = Filter{}

// Only matches records with status s.
func Only(s compare.Status) Filter { return Filter{status: s, only: true} }

// ParseFilter parses "all" (or "") and any status name accepted by compare.ParseStatus.
func ParseFilter(s string) (Filter, error) {
	if s == "" || s == "all" {
		return All, nil
	}
	st, err := compare.ParseStatus(s)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
	return Only(st), nil
}

// Match reports whether a record with status s passes the filter.
func (f Filter) Match(s compare.Status) bool {
	return !f.only || f.status == s
}

// String returns "all" or the status name.
func (f Filter) String() string {
	if !f.only {
		return "all"
	}
	return f.status.String()
}
