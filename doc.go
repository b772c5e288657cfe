// Package iresearch implements the segment-level read/write core of an
// embeddable inverted-index search engine: a columnar store for per-
// document values, a doc-iterator algebra for combining and filtering
// those columns, and (in the levenshtein subpackage) a Levenshtein
// parametric-automaton builder for fuzzy term matching.
//
// A typical write path builds one segment at a time:
//
//	dir, _ := iresearch.NewFSDirectory("/var/data/segment-0001")
//	w, _ := iresearch.NewWriter(dir, compression.Default(), 0)
//	col, _ := w.Column("title", 0)
//	col.AddKey(1, []byte("the unbearable lightness of being"))
//	col.AddKey(2, []byte("invisible cities"))
//	_ = w.Commit()
//
// and the read path opens it back up and walks an individual column or a
// combination of them:
//
//	r, _ := iresearch.OpenReader(dir, compression.Default())
//	it, _ := iresearch.Existence(r, "title")
//	for it.Next() {
//	    fmt.Println(it.Value())
//	}
//
// # Package Structure
//
//   - docid.go, attribute.go, iterator.go — the doc-id space and the
//     DocIterator/attribute-bag contract every iterator in this package
//     implements.
//   - dataio.go, checksum.go, footer.go — the wire-format primitives and
//     the on-disk segment footer/column-header layout.
//   - column.go, columnblock.go, columnwriter.go, columnreader.go,
//     columniterator.go — the columnar store itself.
//   - segmentwriter.go, segmentreader.go, directory.go — segment-level
//     orchestration and the storage collaborator interface.
//   - conjunction.go, disjunction.go, columnexistence.go,
//     columnprefix.go, score.go — the doc-iterator algebra.
//   - compression/ — the Compression collaborator and its two built-in
//     codecs.
//   - levenshtein/ — the parametric Levenshtein automaton builder.
package iresearch
