package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeFilter_ShouldProcess(t *testing.T) {
	filter := NewDedupeFilter()

	reads := []string{"A", "A", "A", "B", "B", "A"}
	var processed []int
	for i, raw := range reads {
		if filter.ShouldProcess(raw) {
			processed = append(processed, i+1)
		}
	}

	assert.Equal(t, []int{1, 4, 6}, processed)
	assert.Equal(t, "A", filter.Last())
}

func TestDedupeFilter_StartsEmpty(t *testing.T) {
	filter := NewDedupeFilter()
	assert.Empty(t, filter.Last())
	assert.True(t, filter.ShouldProcess("A"))
}
