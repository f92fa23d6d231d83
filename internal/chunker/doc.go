// Package chunker splits section text into overlapping, size-bounded spans.
//
// The chunker emits byte offsets rather than copied text so provenance
// survives: a chunk can always be traced back to the exact slice of its
// owning section. Overlap guards against losing the evidentiary context a
// citation needs when a sentence straddles a boundary; the bounded backward
// newline search keeps boundaries on readable lines without the cost of
// semantic segmentation.
package chunker
