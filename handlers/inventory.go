package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Tanish431/CC-BackProj-3/cache"
	"github.com/Tanish431/CC-BackProj-3/models"
	"github.com/Tanish431/CC-BackProj-3/store"
	"github.com/Tanish431/CC-BackProj-3/validators"
)

func InventoryList(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := st.ListItems(c.Request.Context(), store.ItemFilter{})
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if items == nil {
			items = []models.Item{}
		}
		c.JSON(http.StatusOK, items)
	}
}

func InventoryNew(st *store.Store, ch *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}
		if err := validators.ValidateNewItem(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		item, err := st.CreateItem(c.Request.Context(), req)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		ch.InvalidatePrefix(c.Request.Context(), shopCachePrefix)
		c.JSON(http.StatusOK, item)
	}
}

func InventoryUpdate(st *store.Store, ch *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bad item id"})
			return
		}
		var req models.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request"})
			return
		}
		if err := validators.ValidateItemUpdate(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		item, err := st.UpdateItem(c.Request.Context(), id, req)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		ch.InvalidatePrefix(c.Request.Context(), shopCachePrefix)
		c.JSON(http.StatusOK, item)
	}
}

func InventoryRestock(st *store.Store, ch *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bad item id"})
			return
		}
		var req models.RestockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}
		item, err := st.Restock(c.Request.Context(), id, req.Quantity)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		ch.InvalidatePrefix(c.Request.Context(), shopCachePrefix)
		c.JSON(http.StatusOK, item)
	}
}

func InventoryLowStock(st *store.Store, threshold int) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := st.LowStock(c.Request.Context(), threshold)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if len(items) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "All items sufficiently stocked"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"alert": "Low stock detected", "items": items})
	}
}

// InventoryOrders is the admin reporting query over the order ledger.
func InventoryOrders(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := store.OrderFilter{
			ItemName: c.Query("itemName"),
			Category: c.Query("category"),
			Username: c.Query("user"),
			Page:     queryInt(c, "page", 1),
			Limit:    queryInt(c, "limit", 10),
		}
		if v, err := strconv.ParseFloat(c.Query("minTotal"), 64); err == nil {
			filter.MinTotal = &v
		}
		if v, err := strconv.ParseFloat(c.Query("maxTotal"), 64); err == nil {
			filter.MaxTotal = &v
		}
		page, err := st.SearchOrders(c.Request.Context(), filter)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func InventoryRevenue(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		revenue, err := st.Revenue(c.Request.Context())
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"totalRevenue": revenue})
	}
}

// InventoryUpload bulk-imports catalog rows from an uploaded CSV with the
// header: name,description,category,quantity,price,imageUrl.
func InventoryUpload(st *store.Store, ch *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		defer file.Close()

		reqs, err := parseItemsCSV(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "CSV parsing failed", "details": err.Error()})
			return
		}
		inserted, err := st.ImportItems(c.Request.Context(), reqs)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		ch.InvalidatePrefix(c.Request.Context(), shopCachePrefix)
		c.JSON(http.StatusOK, gin.H{"message": "CSV uploaded successfully", "inserted": inserted})
	}
}

func parseItemsCSV(r io.Reader) ([]models.NewItemRequest, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, fmt.Errorf("header must include a name column")
	}

	field := func(record []string, name string) string {
		if i, ok := col[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	var reqs []models.NewItemRequest
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		req := models.NewItemRequest{
			Name:        field(record, "name"),
			Description: field(record, "description"),
			Category:    field(record, "category"),
		}
		if req.Name == "" {
			continue
		}
		if q, err := strconv.Atoi(field(record, "quantity")); err == nil && q >= 0 {
			req.Quantity = q
		}
		if p, err := strconv.ParseFloat(field(record, "price"), 64); err == nil && p >= 0 {
			req.Price = p
		}
		if u := field(record, "imageurl"); u != "" {
			req.ImageURL = &u
		}
		reqs = append(reqs, req)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no item rows found")
	}
	return reqs, nil
}
