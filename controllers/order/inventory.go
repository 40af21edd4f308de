package orderControllers

import (
	"errors"
	"fmt"

	"github.com/storelane/ecommerce-api/apperrors"
	"github.com/storelane/ecommerce-api/models"
	"gorm.io/gorm"
)

// ReserveStock decrements a product's stock by qty inside the caller's
// transaction. The decrement is guarded (`stock >= qty`), so a stock value
// read earlier in the transaction can never be trusted into oversell: if a
// concurrent placement drained the stock first, zero rows match and the
// whole transaction rolls back.
func ReserveStock(tx *gorm.DB, productID uint, qty int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", apperrors.ErrNotFound, productID)
			}
			return err
		}
		return &apperrors.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   qty,
			Available:   product.Stock,
		}
	}
	return nil
}
