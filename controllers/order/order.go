package orderControllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storelane/ecommerce-api/apperrors"
	"github.com/storelane/ecommerce-api/models"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

// Map string to OrderStatus; unknown values are rejected, not cast.
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToUpper(status) {
	case string(models.OrderStatusPlaced):
		return models.OrderStatusPlaced, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: invalid order status %q", apperrors.ErrInvalidArgument, status)
	}
}

// Allowed status transitions. DELIVERED and CANCELLED are terminal.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPlaced:  {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped: {models.OrderStatusDelivered, models.OrderStatusCancelled},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// -------- Order Placement Engine --------

// PlaceOrder turns the user's cart into an immutable order. Stock
// validation, order creation, stock decrement and cart clearing run as one
// transaction; any failure leaves every table as if the call never started.
func PlaceOrder(db *gorm.DB, userID string) (models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return apperrors.ErrEmptyCart
		}

		// Validate every line before any write.
		for _, item := range cart.Items {
			if item.Quantity > item.Product.Stock {
				return &apperrors.InsufficientStockError{
					ProductID:   item.ProductID,
					ProductName: item.Product.Name,
					Requested:   item.Quantity,
					Available:   item.Product.Stock,
				}
			}
		}

		// Freeze unit prices and the total at this instant.
		var total float64
		orderItems := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			total += float64(item.Quantity) * item.Product.Price
			orderItems = append(orderItems, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			})
		}

		order = models.Order{
			ID:     uuid.NewString(),
			UserID: userID,
			Items:  orderItems,
			Total:  total,
			Status: models.OrderStatusPlaced,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Deduct stock. The guarded decrement re-validates against the
		// transaction's view, so a concurrent placement cannot oversell.
		for _, item := range cart.Items {
			if err := ReserveStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		// Clear cart items; the cart row itself persists.
		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// -------- Order Status Machine --------

// UpdateOrderStatus transitions an order and appends exactly one history
// row. Both writes commit together or not at all.
func UpdateOrderStatus(db *gorm.DB, orderID string, newStatus models.OrderStatus, actingUserID string) (models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", apperrors.ErrNotFound, orderID)
			}
			return err
		}

		if order.Status == newStatus {
			return apperrors.ErrNoOp
		}
		if !canTransition(order.Status, newStatus) {
			return fmt.Errorf("%w: cannot transition order from %s to %s",
				apperrors.ErrInvalidArgument, order.Status, newStatus)
		}

		fromStatus := order.Status
		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return err
		}
		order.Status = newStatus

		history := models.OrderHistory{
			OrderID:     order.ID,
			FromStatus:  fromStatus,
			ToStatus:    newStatus,
			ChangedByID: actingUserID,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// GetOrderHistory returns the append-only transition log, newest first.
func GetOrderHistory(db *gorm.DB, orderID string) ([]models.OrderHistory, error) {
	var order models.Order
	if err := db.Select("id").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", apperrors.ErrNotFound, orderID)
		}
		return nil, err
	}

	var history []models.OrderHistory
	if err := db.
		Preload("ChangedBy").
		Where("order_id = ?", orderID).
		Order("changed_at DESC, id DESC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// -------- Order Query Service --------

type OrderListQuery struct {
	Page     int
	Limit    int
	Email    string
	MinTotal *float64
	MaxTotal *float64
	DateFrom *time.Time
	DateTo   *time.Time
}

type PagedOrders struct {
	Data       []models.Order `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// ParseOrderListQuery reads filters off the request. page/limit fall back
// to defaults when absent or invalid; malformed totals and dates are
// client errors.
func ParseOrderListQuery(c *gin.Context) (OrderListQuery, error) {
	q := OrderListQuery{Page: 1, Limit: 10, Email: c.Query("email")}

	if raw := c.Query("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page >= 1 {
			q.Page = page
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit >= 1 {
			q.Limit = limit
		}
	}

	if raw := c.Query("minTotal"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("%w: invalid minTotal %q", apperrors.ErrInvalidArgument, raw)
		}
		q.MinTotal = &v
	}
	if raw := c.Query("maxTotal"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("%w: invalid maxTotal %q", apperrors.ErrInvalidArgument, raw)
		}
		q.MaxTotal = &v
	}

	if raw := c.Query("dateFrom"); raw != "" {
		t, err := parseFilterDate(raw)
		if err != nil {
			return q, fmt.Errorf("%w: invalid dateFrom %q", apperrors.ErrInvalidArgument, raw)
		}
		q.DateFrom = &t
	}
	if raw := c.Query("dateTo"); raw != "" {
		t, err := parseFilterDate(raw)
		if err != nil {
			return q, fmt.Errorf("%w: invalid dateTo %q", apperrors.ErrInvalidArgument, raw)
		}
		q.DateTo = &t
	}

	return q, nil
}

func parseFilterDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// buildOrderFilter starts from an empty predicate and conjunctively adds
// one clause per present filter field.
func buildOrderFilter(tx *gorm.DB, q OrderListQuery) *gorm.DB {
	query := tx.Model(&models.Order{})

	if q.Email != "" {
		query = query.
			Joins("JOIN users ON users.id = orders.user_id").
			Where("LOWER(users.email) LIKE ?", "%"+strings.ToLower(q.Email)+"%")
	}
	if q.MinTotal != nil {
		query = query.Where("total >= ?", *q.MinTotal)
	}
	if q.MaxTotal != nil {
		query = query.Where("total <= ?", *q.MaxTotal)
	}
	if q.DateFrom != nil {
		query = query.Where("orders.created_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("orders.created_at <= ?", *q.DateTo)
	}

	return query
}

// GetAllOrders returns one filtered page plus the filtered count, both
// taken from the same snapshot so totalPages cannot race a concurrent
// placement.
func GetAllOrders(db *gorm.DB, q OrderListQuery) (PagedOrders, error) {
	result := PagedOrders{
		Data:  []models.Order{},
		Page:  q.Page,
		Limit: q.Limit,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := buildOrderFilter(tx, q).Count(&result.Total).Error; err != nil {
			return err
		}

		offset := (q.Page - 1) * q.Limit
		return buildOrderFilter(tx, q).
			Preload("User").
			Preload("Items.Product").
			Order("orders.created_at DESC").
			Offset(offset).
			Limit(q.Limit).
			Find(&result.Data).Error
	})
	if err != nil {
		return PagedOrders{}, err
	}

	result.TotalPages = int(math.Ceil(float64(result.Total) / float64(q.Limit)))
	return result, nil
}

// GetUserOrders returns the caller's own orders, newest first.
func GetUserOrders(db *gorm.DB, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := db.
		Where("user_id = ?", userID).
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// -------- Handlers --------

// POST /orders
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		order, err := PlaceOrder(db, userID)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}

		broadcastOrderEvent(orderEvent{Type: "order_placed", Order: order})
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		orders, err := GetUserOrders(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/admin
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := ParseOrderListQuery(c)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}

		page, err := GetAllOrders(db, q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// PATCH /orders/admin/:orderId/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderId")
		actingUserID := c.GetString("user_id")

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}

		order, err := UpdateOrderStatus(db, orderID, newStatus, actingUserID)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}

		broadcastOrderEvent(orderEvent{Type: "order_status_changed", Order: order})
		c.JSON(http.StatusOK, order)
	}
}

// GET /orders/admin/:orderId/history
func GetOrderHistoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderId")

		history, err := GetOrderHistory(db, orderID)
		if err != nil {
			c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, history)
	}
}
