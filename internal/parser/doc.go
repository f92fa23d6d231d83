// Package parser turns the collected dossier stream into an ordered
// sequence of sections.
//
// The collector upstream concatenates per-page OCR text into one UTF-8
// stream, introducing each page with a header line:
//
//	=== Bills#5 :: invoice_page5.pdf ===
//
// A header both terminates the section being accumulated and opens the next
// one. Anything that does not match the header grammar, including malformed
// headers, is body text. Parsing is total: the only error the parser can
// surface is an I/O failure from the underlying reader.
//
// Usage:
//
//	p := parser.New(f)
//	for {
//	    sec, ok := p.Next()
//	    if !ok {
//	        break
//	    }
//	    // chunk sec
//	}
//	if err := p.Err(); err != nil { ... }
package parser
