package parser

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/dossier-index/pkg/types"
)

// maxLineBytes bounds a single line of the collected stream. OCR output can
// produce very long lines, so this is well above bufio's default.
const maxLineBytes = 1024 * 1024

// headerPattern recognizes section headers of the form
//
//	=== <Category>#<Page> :: <SourceName> ===
//
// Category is one or more letters, Page one or more digits, SourceName free
// text up to the closing marker. Lines that do not match are ordinary
// content.
var headerPattern = regexp.MustCompile(`^===\s+([A-Za-z]+)#(\d+)\s+::\s+(.+?)\s+===$`)

// Parser scans a collected dossier stream and yields sections in stream
// order. It is a forward-only, single-pass reader: once a section has been
// returned it is not revisited.
type Parser struct {
	scanner *bufio.Scanner
	buf     []string
	open    bool
	cur     types.Section
	done    bool
}

// New creates a Parser reading from r.
func New(r io.Reader) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Parser{scanner: sc}
}

// Next returns the next section in stream order. The second return value is
// false once the stream is exhausted. Content before the first header is
// discarded; the last open section is flushed at end of input.
func (p *Parser) Next() (types.Section, bool) {
	if p.done {
		return types.Section{}, false
	}

	for p.scanner.Scan() {
		line := p.scanner.Text()

		category, page, source, ok := parseHeader(line)
		if !ok {
			if p.open {
				p.buf = append(p.buf, line)
			}
			continue
		}

		if p.open {
			sec := p.flush()
			p.begin(category, page, source)
			return sec, true
		}
		p.begin(category, page, source)
	}

	p.done = true
	if p.open {
		p.open = false
		return p.flush(), true
	}
	return types.Section{}, false
}

// Err reports any I/O error encountered by the underlying reader. Malformed
// input is never an error; the parser is total over any text.
func (p *Parser) Err() error {
	return p.scanner.Err()
}

// ParseAll drains the stream and returns every section in order.
func ParseAll(r io.Reader) ([]types.Section, error) {
	p := New(r)
	var sections []types.Section
	for {
		sec, ok := p.Next()
		if !ok {
			break
		}
		sections = append(sections, sec)
	}
	return sections, p.Err()
}

func (p *Parser) begin(category string, page int, source string) {
	p.cur = types.Section{Category: category, Page: page, SourceName: source}
	p.buf = p.buf[:0]
	p.open = true
}

func (p *Parser) flush() types.Section {
	sec := p.cur
	sec.Text = strings.TrimSpace(strings.Join(p.buf, "\n"))
	p.buf = p.buf[:0]
	return sec
}

// parseHeader matches a line against the header grammar. A line whose page
// does not parse as an integer is not a header; it degrades to content.
func parseHeader(line string) (category string, page int, source string, ok bool) {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", 0, "", false
	}
	page, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, "", false
	}
	return m[1], page, m[3], true
}
