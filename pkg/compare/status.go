package compare

import "fmt"

// Status is the completeness of one record across languages.
type Status string

const (
	// StatusTranslated means every known language has a value.
	StatusTranslated Status = "translated"
	// StatusIncomplete means the primary language has a value and another language does not.
	StatusIncomplete Status = "incomplete"
	// StatusError means some language has the key while the primary language does not.
	StatusError Status = "error"
	// StatusUnclassified is used when no primary language is selected, or no language
	// has the key at all.
	StatusUnclassified Status = ""
)

// Statuses lists the classified statuses in display order.
var Statuses = []Status{StatusTranslated, StatusIncomplete, StatusError}

// String returns the status name; the unclassified status is "unclassified".
func (s Status) String() string {
	if s == StatusUnclassified {
		return "unclassified"
	}
	return string(s)
}

// ParseStatus parses a status name. "unclassified" and "" map to StatusUnclassified.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTranslated, StatusIncomplete, StatusError, StatusUnclassified:
		return Status(s), nil
	}
	if s == "unclassified" {
		return StatusUnclassified, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// PresenceFunc decides whether a cell counts as a translation.
type PresenceFunc func(Cell) bool

// Present counts every cell that holds a value, including empty strings.
func Present(c Cell) bool { return c.Present }

// PresentNonBlank counts cells that hold a value other than "" or null.
func PresentNonBlank(c Cell) bool { return c.Present && !c.Value.IsBlank() }

// Classify computes the status of rec. primary is the index of the primary language
// in rec.Cells; a negative index means no primary language is selected.
//
// Precedence: all languages present is translated; otherwise a present primary is
// incomplete; otherwise any present language is error; otherwise unclassified.
func Classify(rec Record, primary int, present PresenceFunc) Status {
	total := len(rec.Cells)
	if primary < 0 || primary >= total {
		return StatusUnclassified
	}
	if present == nil {
		present = Present
	}

	count := 0
	for _, c := range rec.Cells {
		if present(c) {
			count++
		}
	}
	primaryPresent := present(rec.Cells[primary])

	switch {
	case count == total:
		return StatusTranslated
	case primaryPresent:
		return StatusIncomplete
	case count > 0:
		return StatusError
	default:
		return StatusUnclassified
	}
}

// Counts is the number of records per status.
type Counts struct {
	Translated   int `json:"translated"`
	Incomplete   int `json:"incomplete"`
	Error        int `json:"error"`
	Unclassified int `json:"unclassified"`
	Total        int `json:"total"`
}

// Count reduces classified records to per-status counts.
func Count(records []Record) Counts {
	c := Counts{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusTranslated:
			c.Translated++
		case StatusIncomplete:
			c.Incomplete++
		case StatusError:
			c.Error++
		default:
			c.Unclassified++
		}
	}
	return c
}

// Of returns the count for status s.
func (c Counts) Of(s Status) int {
	switch s {
	case StatusTranslated:
		return c.Translated
	case StatusIncomplete:
		return c.Incomplete
	case StatusError:
		return c.Error
	default:
		return c.Unclassified
	}
}
