package indexer

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// idHashLen is the width of the disambiguating hash suffix in hex digits.
const idHashLen = 10

// ChunkID derives the stable identifier for one chunk. The prefix is
// human-traceable (category, page, per-section sequence number, chunk
// index); the suffix is a truncated SHA-1 over the provenance tuple so two
// sections sharing (category, page) cannot collide. The function is pure:
// identical inputs produce identical IDs on every build.
func ChunkID(category string, page int, sourceName string, sectionNo, chunkIdx, start, end int) string {
	sum := sha1.Sum(fmt.Appendf(nil, "%s|%d|%s|%d|%d|%d",
		category, page, sourceName, start, end, end-start))
	return fmt.Sprintf("%s_%d_s%d_c%d_%s",
		category, page, sectionNo, chunkIdx, hex.EncodeToString(sum[:])[:idHashLen])
}
