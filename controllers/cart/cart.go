package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storelane/ecommerce-api/apperrors"
	"github.com/storelane/ecommerce-api/models"
	"gorm.io/gorm"
)

type CartItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CartItemView carries the derived per-line subtotal; it is computed from
// the live product price on every read and never stored.
type CartItemView struct {
	ID        uint           `json:"id"`
	ProductID uint           `json:"product_id"`
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	Subtotal  float64        `json:"subtotal"`
}

type CartView struct {
	CartID    uint           `json:"cart_id"`
	Items     []CartItemView `json:"items"`
	Total     float64        `json:"total"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// -------- Core Logic --------

// GetOrCreateCart returns the user's cart with items and products loaded,
// creating an empty cart on first access.
func GetOrCreateCart(db *gorm.DB, userID string) (models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			return models.Cart{}, err
		}
		return cart, nil
	}
	return cart, err
}

// BuildCartView recomputes subtotals and the cart total from live prices.
func BuildCartView(cart models.Cart) CartView {
	view := CartView{
		CartID:    cart.CartID,
		Items:     make([]CartItemView, 0, len(cart.Items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		subtotal := float64(item.Quantity) * item.Product.Price
		view.Items = append(view.Items, CartItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Product:   item.Product,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		view.Total += subtotal
	}
	return view
}

// AddItem merges quantity into an existing (cart, product) row or creates a
// new one. The combined quantity must not exceed current stock.
func AddItem(db *gorm.DB, userID string, productID uint, qty int) (models.CartItem, error) {
	if qty < 1 {
		return models.CartItem{}, fmt.Errorf("%w: quantity must be at least 1", apperrors.ErrInvalidArgument)
	}

	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return models.CartItem{}, err
	}

	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, fmt.Errorf("%w: product %d", apperrors.ErrNotFound, productID)
		}
		return models.CartItem{}, err
	}

	var item models.CartItem
	err = db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if qty > product.Stock {
			return models.CartItem{}, &apperrors.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   qty,
				Available:   product.Stock,
			}
		}
		item = models.CartItem{
			CartID:    cart.CartID,
			ProductID: product.ID,
			Quantity:  qty,
			AddedAt:   time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return models.CartItem{}, err
		}
		return item, nil
	case err != nil:
		return models.CartItem{}, err
	}

	merged := item.Quantity + qty
	if merged > product.Stock {
		return models.CartItem{}, &apperrors.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   merged,
			Available:   product.Stock,
		}
	}
	item.Quantity = merged
	item.AddedAt = time.Now()
	if err := db.Save(&item).Error; err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// UpdateItem sets (does not add to) the quantity of an existing cart item.
func UpdateItem(db *gorm.DB, userID string, productID uint, qty int) (models.CartItem, error) {
	if qty < 1 {
		return models.CartItem{}, fmt.Errorf("%w: quantity must be at least 1", apperrors.ErrInvalidArgument)
	}

	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return models.CartItem{}, err
	}

	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, fmt.Errorf("%w: product %d", apperrors.ErrNotFound, productID)
		}
		return models.CartItem{}, err
	}

	if qty > product.Stock {
		return models.CartItem{}, &apperrors.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   qty,
			Available:   product.Stock,
		}
	}

	var item models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, fmt.Errorf("%w: cart item for product %d", apperrors.ErrNotFound, productID)
		}
		return models.CartItem{}, err
	}

	item.Quantity = qty
	item.AddedAt = time.Now()
	if err := db.Save(&item).Error; err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// RemoveItem deletes a single cart item. Removing an item that is not in
// the cart returns NotFound.
func RemoveItem(db *gorm.DB, userID string, productID uint) error {
	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return err
	}

	result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: cart item for product %d", apperrors.ErrNotFound, productID)
	}
	return nil
}

// ClearCart deletes all items; the cart row itself persists. Idempotent.
func ClearCart(db *gorm.DB, userID string) error {
	cart, err := GetOrCreateCart(db, userID)
	if err != nil {
		return err
	}
	return db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
}

func parseProductID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// -------- Handlers --------

// GET /cart
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, BuildCartView(cart))
	}
}

// POST /cart
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PATCH /cart
func UpdateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := UpdateItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /cart/:productId
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		productID, err := parseProductID(c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}

		if err := RemoveItem(db, userID, productID); err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// POST /cart/clear
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		if err := ClearCart(db, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
