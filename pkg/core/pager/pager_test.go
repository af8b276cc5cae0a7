package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPager_FirstOfThree(t *testing.T) {
	p := Pager{Page: 1, Size: 20, Total: 45}

	assert.Equal(t, 3, p.Pages())
	assert.Equal(t, "1 / 3", p.Label())
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrev())
}

func TestPager_LastPage(t *testing.T) {
	p := Pager{Page: 3, Size: 20, Total: 45}

	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrev())
	assert.False(t, p.Next())
	assert.Equal(t, 3, p.Page)
}

func TestPager_ExactMultiple(t *testing.T) {
	p := Pager{Page: 2, Size: 20, Total: 40}

	assert.Equal(t, 2, p.Pages())
	assert.False(t, p.HasNext())
}

func TestPager_EmptyHasOnePage(t *testing.T) {
	p := New(20)

	assert.Equal(t, 1, p.Pages())
	assert.Equal(t, "1 / 1", p.Label())
	assert.False(t, p.HasNext())
	assert.False(t, p.Prev())
}

func TestPager_NextPrev(t *testing.T) {
	p := Pager{Page: 1, Size: 10, Total: 25}

	assert.True(t, p.Next())
	assert.Equal(t, 2, p.Page)
	assert.True(t, p.Prev())
	assert.Equal(t, 1, p.Page)
}

func TestClampSize(t *testing.T) {
	assert.Equal(t, DefaultSize, ClampSize(0))
	assert.Equal(t, DefaultSize, ClampSize(-3))
	assert.Equal(t, 1, ClampSize(1))
	assert.Equal(t, 50, ClampSize(50))
	assert.Equal(t, MaxSize, ClampSize(1000))
}

func TestPager_Params(t *testing.T) {
	values := Pager{Page: 2, Size: 20}.Params()

	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "20", values.Get("size"))
}

func TestQuery_ValuesOmitsEmpty(t *testing.T) {
	q := Query{
		Page:   1,
		Size:   20,
		Search: "",
		Filters: map[string]string{
			"status":   "pending",
			"event_id": "",
		},
	}

	values := q.Values()
	assert.Equal(t, "pending", values.Get("status"))
	assert.False(t, values.Has("event_id"))
	assert.False(t, values.Has("search"))

	q.Search = "kim"
	assert.Equal(t, "kim", q.Values().Get("search"))
}
