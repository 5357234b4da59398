package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindInwardCandidates(t *testing.T) {
	text := "Collector Office Pune\nInward No: IN-001 dated 2024\nRef 456/2025\n"
	got := FindInwardCandidates(text)
	assert.Contains(t, got, "IN-001")
	assert.Contains(t, got, "456/2025")
	// the token on the "Inward" line comes first
	assert.Equal(t, "IN-001", got[0])
}

func TestFindInwardCandidatesSkipsYears(t *testing.T) {
	got := FindInwardCandidates("dated 2024\nyear 1999\n")
	assert.NotContains(t, got, "2024")
	assert.NotContains(t, got, "1999")
}

func TestFindInwardCandidatesDedupes(t *testing.T) {
	got := FindInwardCandidates("IN-001\nIN-001\nin-001")
	count := 0
	for _, g := range got {
		if g == "IN-001" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestIsImagePath(t *testing.T) {
	assert.True(t, IsImagePath("letter.jpg"))
	assert.True(t, IsImagePath("scan.png"))
	assert.False(t, IsImagePath("note.pdf"))
	assert.False(t, IsImagePath("letter"))
}
