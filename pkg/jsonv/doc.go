// Package jsonv provides a tagged JSON value type for translation documents.
//
// Unlike decoding into map[string]any, a Value carries an explicit Kind and keeps
// object members in document order, so traversals dispatch on the tag and produce
// stable output:
//
//	v, err := jsonv.ParseDocument(data)
//	if err != nil {
//		return err
//	}
//	for _, m := range v.Members() {
//		fmt.Println(m.Key, m.Value.Kind())
//	}
//
// YAML documents are converted to the same representation with ParseYAML.
package jsonv
