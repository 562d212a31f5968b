package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{"empty", 0, 6, 0},
		{"exact", 12, 6, 2},
		{"remainder", 13, 6, 3},
		{"single partial", 1, 6, 1},
		{"zero page size", 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.total, tt.pageSize))
		})
	}
}

func TestNewPaginated_ThirteenItemsPageSizeSix(t *testing.T) {
	items := seq(13)

	p1 := NewPaginated(items, 1, 6)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, p1.Items)
	assert.Equal(t, 3, p1.TotalPages)
	assert.True(t, p1.HasNext())
	assert.False(t, p1.HasPrev())

	p2 := NewPaginated(items, 2, 6)
	assert.Equal(t, []int{7, 8, 9, 10, 11, 12}, p2.Items)

	p3 := NewPaginated(items, 3, 6)
	assert.Equal(t, []int{13}, p3.Items)
	assert.False(t, p3.HasNext())

	p4 := NewPaginated(items, 4, 6)
	assert.Empty(t, p4.Items)
	assert.Equal(t, 13, p4.Total)
}

func TestNewPaginated_PageSizeFormula(t *testing.T) {
	for n := 0; n <= 25; n++ {
		for p := 1; p <= 7; p++ {
			items := seq(n)
			pages := TotalPages(n, p)
			for k := 1; k <= pages+2; k++ {
				got := NewPaginated(items, k, p)
				want := 0
				if k <= pages {
					want = min(p, n-(k-1)*p)
				}
				assert.Lenf(t, got.Items, want, "n=%d p=%d k=%d", n, p, k)
			}
		}
	}
}

func TestNewPaginated_ClampsLowPage(t *testing.T) {
	got := NewPaginated(seq(3), 0, 2)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, []int{1, 2}, got.Items)
}

func TestNewPaginated_DoesNotAliasSource(t *testing.T) {
	items := seq(4)
	got := NewPaginated(items, 1, 2)
	got.Items[0] = 99
	assert.Equal(t, 1, items[0])
}

func TestNewPaginated_HugePage(t *testing.T) {
	items := seq(13)
	for _, page := range []int{math.MaxInt, math.MaxInt / 6, math.MaxInt/6 + 2} {
		var got Paginated[int]
		require.NotPanics(t, func() { got = NewPaginated(items, page, 6) })
		assert.Empty(t, got.Items)
		assert.Equal(t, 13, got.Total)
		assert.False(t, got.HasNext())
	}

	start, end := PageBounds(13, math.MaxInt, 6)
	assert.Equal(t, 13, start)
	assert.Equal(t, 13, end)
}
