package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestOffset(t *testing.T) {
	tests := []struct {
		name string
		req  PageRequest
		want int
	}{
		{"first page", PageRequest{Page: 1, PageSize: 20}, 0},
		{"third page", PageRequest{Page: 3, PageSize: 20}, 40},
		{"unset", PageRequest{}, 0},
		{"saturates", PageRequest{Page: 92233720368547760, PageSize: 100}, math.MaxInt},
		{"max page", PageRequest{Page: MaxPage, PageSize: MaxPageSize}, (MaxPage - 1) * MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Offset())
		})
	}
}

func TestPageRequestNormalize(t *testing.T) {
	p := PageRequest{Page: 0, PageSize: 500}
	p.Normalize()
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)

	p = PageRequest{}
	p.Normalize()
	assert.Equal(t, DefaultPageSize, p.PageSize)
}
