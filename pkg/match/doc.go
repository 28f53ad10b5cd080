// Package match implements fuzzy search over the records of a comparison report.
//
// A record matches when the query is close to its key or to any of its translated values.
// Text is compared after case folding and stripping diacritics, so "ete" finds "Été".
//
//	e := match.New(report)
//	for _, res := range e.Search("welcom", match.Only(compare.StatusIncomplete)) {
//		fmt.Println(res.Record.Key, res.Score)
//	}
package match
