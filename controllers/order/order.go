package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lojak57/baseform-api/models"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

func parseOrderStatus(status string) (models.OrderStatus, error) {
	switch models.OrderStatus(strings.ToLower(status)) {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return models.OrderStatus(strings.ToLower(status)), nil
	default:
		return "", fmt.Errorf("invalid order status %q", status)
	}
}

func parsePaymentStatus(status string) (models.PaymentStatus, error) {
	switch models.PaymentStatus(strings.ToLower(status)) {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed:
		return models.PaymentStatus(strings.ToLower(status)), nil
	default:
		return "", fmt.Errorf("invalid payment status %q", status)
	}
}

// statusRank orders the fulfilment sequence; cancelled sits outside it.
var statusRank = map[models.OrderStatus]int{
	models.OrderStatusPending:   0,
	models.OrderStatusConfirmed: 1,
	models.OrderStatusShipped:   2,
	models.OrderStatusDelivered: 3,
}

// canTransition allows forward movement through the fulfilment sequence and
// cancellation before shipment. Delivered and cancelled are terminal.
func canTransition(from, to models.OrderStatus) bool {
	if from == to {
		return false
	}
	if from == models.OrderStatusCancelled || from == models.OrderStatusDelivered {
		return false
	}
	if to == models.OrderStatusCancelled {
		return statusRank[from] < statusRank[models.OrderStatusShipped]
	}
	return statusRank[to] > statusRank[from]
}

func findOrderByRef(db *gorm.DB, ref string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").Where("order_ref = ?", ref).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetAllOrdersHandler lists orders newest first, with optional status,
// payment_status, and email filters for the back office.
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Preload("Items").Order("created_at DESC")
		if v := c.Query("status"); v != "" {
			status, err := parseOrderStatus(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			q = q.Where("status = ?", status)
		}
		if v := c.Query("payment_status"); v != "" {
			status, err := parsePaymentStatus(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			q = q.Where("payment_status = ?", status)
		}
		if v := c.Query("email"); v != "" {
			q = q.Where("customer_email = ?", v)
		}

		var orders []models.Order
		if err := q.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderByRefHandler returns a single order by its order_ref.
func GetOrderByRefHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := findOrderByRef(db, c.Param("orderRef"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatusHandler moves an order through the fulfilment sequence.
// Backward moves and changes to a terminal order are refused.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := parseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := findOrderByRef(db, c.Param("orderRef"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		if !canTransition(order.Status, newStatus) {
			c.JSON(http.StatusConflict, gin.H{
				"error": fmt.Sprintf("cannot move order from %s to %s", order.Status, newStatus),
			})
			return
		}

		if err := db.Model(order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_ref": order.OrderRef, "status": newStatus})
	}
}

// UpdatePaymentStatusHandler corrects the payment flag. Paid is terminal:
// a confirmed payment is never downgraded by hand.
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := parsePaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := findOrderByRef(db, c.Param("orderRef"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		if order.PaymentStatus == models.PaymentStatusPaid && newStatus != models.PaymentStatusPaid {
			c.JSON(http.StatusConflict, gin.H{"error": "paid orders cannot be downgraded"})
			return
		}

		if err := db.Model(order).Update("payment_status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_ref": order.OrderRef, "payment_status": newStatus})
	}
}

// DeleteOrderHandler purges a cancelled order and its lines. Orders still in
// the fulfilment sequence are refused.
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := findOrderByRef(db, c.Param("orderRef"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		if order.Status != models.OrderStatusCancelled {
			c.JSON(http.StatusConflict, gin.H{"error": "only cancelled orders can be deleted"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(order).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted", "order_ref": order.OrderRef})
	}
}
