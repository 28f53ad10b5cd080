// Package keypath converts between nested translation documents and a flat key space.
//
// A key path addresses one leaf of a document: a dot descends into an object field and a
// bracketed index descends into an array element.
//
//	{"a": {"b": "x", "c": [1, 2]}}
//
// flattens to
//
//	a.b     -> "x"
//	a.c[0]  -> 1
//	a.c[1]  -> 2
//
// Unflatten is the inverse: for any document built from scalars, non-empty objects and
// non-empty arrays, Unflatten(Flatten(v)) equals v. Empty containers are dropped by
// default; pass WithEmptyContainers(KeepEmpty) to record them at their path instead, which
// makes the round trip exact for them too.
//
// Field names are not escaped. Names containing '.' or '[' flatten to paths that parse
// back into different segments, so such documents do not round trip.
package keypath
