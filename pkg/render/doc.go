// Package render turns a compare.Report into Markdown, HTML or a plain-text table, and
// rebuilds the nested subtree behind a single record for display.
package render
