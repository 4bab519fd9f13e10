package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Tanish431/CC-BackProj-3/cache"
	"github.com/Tanish431/CC-BackProj-3/models"
	"github.com/Tanish431/CC-BackProj-3/store"
)

const shopCachePrefix = "shop:list:"

type shopPage struct {
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
	Data       []models.Item `json:"data"`
}

// ShopList is the public catalog browse endpoint: SQL-level category and
// price filters, in-memory fuzzy search, then pagination.
func ShopList(st *store.Store, ch *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		cacheKey := shopCachePrefix + c.Request.URL.RawQuery
		var cached shopPage
		if ch.GetJSON(c.Request.Context(), cacheKey, &cached) {
			c.JSON(http.StatusOK, cached)
			return
		}

		filter := store.ItemFilter{Category: c.Query("category")}
		if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
			filter.MinPrice = &v
		}
		if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
			filter.MaxPrice = &v
		}

		items, err := st.ListItems(c.Request.Context(), filter)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if search := c.Query("search"); search != "" {
			items = fuzzyFilter(search, items)
		}

		page := queryInt(c, "page", 1)
		limit := queryInt(c, "limit", 10)
		result := paginateItems(items, page, limit)

		ch.SetJSON(c.Request.Context(), cacheKey, result)
		c.JSON(http.StatusOK, result)
	}
}

// fuzzyFilter ranks items by fuzzy match on name; when nothing matches the
// name, it falls back to matching descriptions, mirroring the storefront's
// two-pass search.
func fuzzyFilter(search string, items []models.Item) []models.Item {
	byName := make([]string, len(items))
	for i, it := range items {
		byName[i] = it.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(search, byName)
	if len(ranks) == 0 {
		byDesc := make([]string, len(items))
		for i, it := range items {
			byDesc[i] = it.Description
		}
		ranks = fuzzy.RankFindNormalizedFold(search, byDesc)
	}
	sort.Sort(ranks)

	matched := make([]models.Item, 0, len(ranks))
	for _, r := range ranks {
		matched = append(matched, items[r.OriginalIndex])
	}
	return matched
}

func paginateItems(items []models.Item, page, limit int) shopPage {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	total := len(items)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return shopPage{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
		Data:       items[start:end],
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return def
}
