package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tanish431/CC-BackProj-3/models"
)

func catalog() []models.Item {
	return []models.Item{
		{ID: 1, Name: "Walnut Desk", Description: "solid wood desk"},
		{ID: 2, Name: "Desk Lamp", Description: "adjustable brass lamp"},
		{ID: 3, Name: "Office Chair", Description: "ergonomic mesh chair"},
		{ID: 4, Name: "Bookshelf", Description: "five shelves, oak"},
	}
}

func TestFuzzyFilter(t *testing.T) {
	t.Run("matches on name", func(t *testing.T) {
		got := fuzzyFilter("desk", catalog())
		require.NotEmpty(t, got)
		for _, it := range got {
			assert.Contains(t, []int{1, 2}, it.ID)
		}
	})

	t.Run("falls back to description", func(t *testing.T) {
		got := fuzzyFilter("ergonomic", catalog())
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].ID)
	})

	t.Run("no match anywhere", func(t *testing.T) {
		got := fuzzyFilter("zzzzzz", catalog())
		assert.Empty(t, got)
	})
}

func TestPaginateItems(t *testing.T) {
	items := catalog()

	t.Run("first page", func(t *testing.T) {
		page := paginateItems(items, 1, 3)
		assert.Equal(t, 4, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Data, 3)
		assert.Equal(t, 1, page.Data[0].ID)
	})

	t.Run("last partial page", func(t *testing.T) {
		page := paginateItems(items, 2, 3)
		require.Len(t, page.Data, 1)
		assert.Equal(t, 4, page.Data[0].ID)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page := paginateItems(items, 5, 3)
		assert.Empty(t, page.Data)
		assert.Equal(t, 4, page.Total)
	})

	t.Run("defaults for bad inputs", func(t *testing.T) {
		page := paginateItems(items, 0, 0)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.Limit)
		assert.Len(t, page.Data, 4)
	})
}
