package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storelane/ecommerce-api/models"
	"gorm.io/gorm"
)

// GetProducts lists products with optional search and price-range filters.
// Items and the filtered count come from the same snapshot.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")

		var minPrice, maxPrice *float64
		if raw := c.Query("min_price"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
			minPrice = &v
		}
		if raw := c.Query("max_price"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
			maxPrice = &v
		}

		limit := 10
		if raw := c.Query("limit"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
				limit = v
			}
		}
		offset := 0
		if raw := c.Query("offset"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
				offset = v
			}
		}

		filter := func(tx *gorm.DB) *gorm.DB {
			query := tx.Model(&models.Product{})
			if search != "" {
				likePattern := "%" + strings.ToLower(search) + "%"
				query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", likePattern, likePattern)
			}
			if minPrice != nil {
				query = query.Where("price >= ?", *minPrice)
			}
			if maxPrice != nil {
				query = query.Where("price <= ?", *maxPrice)
			}
			return query
		}

		var items []models.Product
		var total int64
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := filter(tx).Count(&total).Error; err != nil {
				return err
			}
			return filter(tx).Offset(offset).Limit(limit).Order("created_at DESC").Find(&items).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
	}
}
