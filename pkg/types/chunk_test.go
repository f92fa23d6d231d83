package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validChunk() Chunk {
	return Chunk{
		ChunkID:    "Press_12_s0_c0_ab34cd56ef",
		Category:   "Press",
		Page:       12,
		Citation:   "Press#12",
		SourceName: "Morning Herald",
		Start:      0,
		End:        5,
		Text:       "hello",
	}
}

func TestChunk_Validate(t *testing.T) {
	c := validChunk()
	require.NoError(t, c.Validate())

	tests := []struct {
		name   string
		mutate func(*Chunk)
	}{
		{"empty chunk ID", func(c *Chunk) { c.ChunkID = "" }},
		{"empty category", func(c *Chunk) { c.Category = "" }},
		{"zero page", func(c *Chunk) { c.Page = 0 }},
		{"negative page", func(c *Chunk) { c.Page = -1 }},
		{"negative start", func(c *Chunk) { c.Start = -1; c.End = 4 }},
		{"empty span", func(c *Chunk) { c.End = c.Start }},
		{"inverted span", func(c *Chunk) { c.Start = 5; c.End = 0 }},
		{"text shorter than span", func(c *Chunk) { c.Text = "hi" }},
		{"text longer than span", func(c *Chunk) { c.Text = "hello world" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validChunk()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestSection_Citation(t *testing.T) {
	sec := Section{Category: "Bios", Page: 3, SourceName: "Who's Who"}
	assert.Equal(t, "Bios#3", sec.Citation())
}

func TestSearchResult_Validate(t *testing.T) {
	r := SearchResult{
		ChunkID:  "Press_12_s0_c0_ab34cd56ef",
		Citation: "Press#12",
		Rank:     1,
	}
	require.NoError(t, r.Validate())

	r.Rank = 0
	assert.Error(t, r.Validate())

	r = SearchResult{Citation: "Press#12", Rank: 1}
	assert.Error(t, r.Validate())

	r = SearchResult{ChunkID: "x", Rank: 1}
	assert.Error(t, r.Validate())
}
