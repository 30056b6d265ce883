package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		pageSize   int
		requested  int
		wantPage   int
		wantTotal  int
		wantOffset int
		wantNext   bool
		wantPrev   bool
	}{
		{name: "first page full", total: 25, pageSize: 10, requested: 1, wantPage: 1, wantTotal: 3, wantOffset: 0, wantNext: true, wantPrev: false},
		{name: "middle page", total: 25, pageSize: 10, requested: 2, wantPage: 2, wantTotal: 3, wantOffset: 10, wantNext: true, wantPrev: true},
		{name: "last partial page", total: 25, pageSize: 10, requested: 3, wantPage: 3, wantTotal: 3, wantOffset: 20, wantNext: false, wantPrev: true},
		{name: "overflow clamps to last", total: 11, pageSize: 10, requested: 3, wantPage: 2, wantTotal: 2, wantOffset: 10, wantNext: false, wantPrev: true},
		{name: "zero resolves to first", total: 11, pageSize: 10, requested: 0, wantPage: 1, wantTotal: 2, wantOffset: 0, wantNext: true, wantPrev: false},
		{name: "negative resolves to first", total: 11, pageSize: 10, requested: -4, wantPage: 1, wantTotal: 2, wantOffset: 0, wantNext: true, wantPrev: false},
		{name: "empty set is one empty page", total: 0, pageSize: 10, requested: 5, wantPage: 1, wantTotal: 1, wantOffset: 0, wantNext: false, wantPrev: false},
		{name: "exact multiple", total: 20, pageSize: 10, requested: 2, wantPage: 2, wantTotal: 2, wantOffset: 10, wantNext: false, wantPrev: true},
		{name: "single item", total: 1, pageSize: 10, requested: 1, wantPage: 1, wantTotal: 1, wantOffset: 0, wantNext: false, wantPrev: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Paginate(tt.total, tt.pageSize, tt.requested)
			assert.Equal(t, tt.wantPage, w.Page)
			assert.Equal(t, tt.wantTotal, w.TotalPages)
			assert.Equal(t, tt.wantOffset, w.Offset)
			assert.Equal(t, tt.pageSize, w.Limit)
			assert.Equal(t, tt.wantNext, w.HasNext)
			assert.Equal(t, tt.wantPrev, w.HasPrev)
		})
	}
}

func TestPaginate_BoundaryElevenPosts(t *testing.T) {
	// page_size=10 with 11 items: page 1 has 10, page 2 has 1,
	// page 3 clamps to page 2's window.
	first := Paginate(11, 10, 1)
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, 10, first.Limit)
	assert.True(t, first.HasNext)

	second := Paginate(11, 10, 2)
	assert.Equal(t, 10, second.Offset)
	assert.False(t, second.HasNext)

	third := Paginate(11, 10, 3)
	assert.Equal(t, second.Page, third.Page)
	assert.Equal(t, second.Offset, third.Offset)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-2", 1},
		{"1", 1},
		{"7", 7},
		{"2.5", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePage(tt.raw), "raw=%q", tt.raw)
	}
}
