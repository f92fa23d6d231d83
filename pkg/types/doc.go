// Package types provides shared type definitions for the dossier index.
//
// This package defines the domain types used across the indexing pipeline:
// sections parsed from the collected dossier stream, the chunks derived from
// them, search results, and the sentinel errors components return.
//
// # Core Types
//
// Section is a labeled span of the collected text stream, attributed to one
// category, page and source document:
//
//	section := types.Section{
//	    Category:   "Bills",
//	    Page:       5,
//	    SourceName: "invoice_page5.pdf",
//	    Text:       body,
//	}
//
// Chunk is the unit of storage and retrieval, a bounded slice of a section
// with byte-offset provenance and a stable identifier:
//
//	chunk := types.Chunk{
//	    ChunkID:  "Bills_5_s0_c0_1a2b3c4d5e",
//	    Citation: "Bills#5",
//	    Start:    0,
//	    End:      58,
//	    Text:     section.Text[0:58],
//	}
//
// # Errors
//
// Components return the sentinel errors declared in this package wrapped with
// context; callers classify them with errors.Is:
//
//	if errors.Is(err, types.ErrIndexUnavailable) {
//	    // no successful build yet
//	}
package types
