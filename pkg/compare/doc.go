// Package compare builds a side-by-side view of translation documents.
//
// Each language is flattened into a key space (see package keypath). Aggregate merges the
// key spaces into a KeyUniverse that keeps every key in first-seen order, and a Record per
// key with one Cell per language. Classify then assigns each record a Status relative to
// the primary language:
//
//	translated  every language has a value
//	incomplete  the primary language has a value, some other language does not
//	error       the primary language lacks a value that another language has
//
// With no primary language every record stays unclassified.
//
// Session ties the steps together and is immutable: changing the primary language
// returns a new Session and reclassifies every record from scratch.
//
//	langs := []compare.Language{
//		{Name: "en", Flat: keypath.Flatten(en)},
//		{Name: "fr", Flat: keypath.Flatten(fr)},
//	}
//	s, err := compare.NewSession(langs, compare.WithPrimary("en"))
//	if err != nil {
//		return err
//	}
//	report := s.Report()
package compare
