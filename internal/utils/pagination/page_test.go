package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitOffset(t *testing.T) {
	limit, offset := LimitOffset(1, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	limit, offset = LimitOffset(3, 25)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset, "page 3 skips the first two pages")
}

func TestLimitOffset_ClampsInvalidInput(t *testing.T) {
	limit, offset := LimitOffset(0, 0)
	assert.Equal(t, DefaultPageSize, limit, "zero page size falls back to the default")
	assert.Equal(t, 0, offset, "page below 1 is treated as the first page")

	limit, _ = LimitOffset(1, 1000)
	assert.Equal(t, MaxPageSize, limit, "page size is capped")
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(1), TotalPages(10, 10))
	assert.Equal(t, int64(2), TotalPages(11, 10))
	assert.Equal(t, int64(1), TotalPages(5, 100))
}
