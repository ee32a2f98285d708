package orderControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lojak57/baseform-api/models"
)

func TestParseOrderStatus(t *testing.T) {
	status, err := parseOrderStatus("Shipped")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, status)

	_, err = parseOrderStatus("teleported")
	assert.Error(t, err)
}

func TestParsePaymentStatus(t *testing.T) {
	status, err := parsePaymentStatus("PAID")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, status)

	_, err = parsePaymentStatus("refunded")
	assert.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	// forward through the fulfilment sequence
	assert.True(t, canTransition(models.OrderStatusPending, models.OrderStatusConfirmed))
	assert.True(t, canTransition(models.OrderStatusConfirmed, models.OrderStatusShipped))
	assert.True(t, canTransition(models.OrderStatusPending, models.OrderStatusDelivered))

	// never backward, never a no-op
	assert.False(t, canTransition(models.OrderStatusShipped, models.OrderStatusConfirmed))
	assert.False(t, canTransition(models.OrderStatusConfirmed, models.OrderStatusConfirmed))

	// cancellation only before shipment
	assert.True(t, canTransition(models.OrderStatusPending, models.OrderStatusCancelled))
	assert.True(t, canTransition(models.OrderStatusConfirmed, models.OrderStatusCancelled))
	assert.False(t, canTransition(models.OrderStatusShipped, models.OrderStatusCancelled))

	// terminal states stay terminal
	assert.False(t, canTransition(models.OrderStatusDelivered, models.OrderStatusShipped))
	assert.False(t, canTransition(models.OrderStatusCancelled, models.OrderStatusPending))
}

func newOrderTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}))

	r := gin.New()
	orders := r.Group("/orders")
	orders.GET("", GetAllOrdersHandler(db))
	orders.GET("/:orderRef", GetOrderByRefHandler(db))
	orders.PUT("/:orderRef/status", UpdateOrderStatusHandler(db))
	orders.PUT("/:orderRef/payment-status", UpdatePaymentStatusHandler(db))
	orders.DELETE("/:orderRef", DeleteOrderHandler(db))
	return r, db
}

func seedOrder(t *testing.T, db *gorm.DB, ref string, status models.OrderStatus) {
	t.Helper()
	require.NoError(t, db.Create(&models.Order{
		OrderRef:      ref,
		CustomerEmail: "ada@example.com",
		Status:        status,
		PaymentStatus: models.PaymentStatusPaid,
		Items:         []models.OrderItem{{ProductID: "p1", FabricCode: "default", Name: "Tee", Price: 20, Quantity: 1}},
	}).Error)
}

func putJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateOrderStatusEnforcesSequence(t *testing.T) {
	r, db := newOrderTestRouter(t)
	seedOrder(t, db, "R1", models.OrderStatusConfirmed)

	w := putJSON(r, "/orders/R1/status", gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusOK, w.Code)

	// shipped orders can no longer be cancelled
	w = putJSON(r, "/orders/R1/status", gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var order models.Order
	require.NoError(t, db.Where("order_ref = ?", "R1").First(&order).Error)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
}

func TestUpdatePaymentStatusPaidIsTerminal(t *testing.T) {
	r, db := newOrderTestRouter(t)
	seedOrder(t, db, "R1", models.OrderStatusConfirmed)

	w := putJSON(r, "/orders/R1/payment-status", gin.H{"payment_status": "pending"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var order models.Order
	require.NoError(t, db.Where("order_ref = ?", "R1").First(&order).Error)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
}

func TestDeleteOrderOnlyWhenCancelled(t *testing.T) {
	r, db := newOrderTestRouter(t)
	seedOrder(t, db, "R1", models.OrderStatusConfirmed)

	req := httptest.NewRequest(http.MethodDelete, "/orders/R1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.NoError(t, db.Model(&models.Order{}).Where("order_ref = ?", "R1").
		Update("status", models.OrderStatusCancelled).Error)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/orders/R1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "order lines are purged with the order")
}

func TestGetAllOrdersFilters(t *testing.T) {
	r, db := newOrderTestRouter(t)
	seedOrder(t, db, "R1", models.OrderStatusConfirmed)
	seedOrder(t, db, "R2", models.OrderStatusShipped)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders?status=shipped", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "R2", orders[0].OrderRef)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders?status=teleported", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderByRef(t *testing.T) {
	r, db := newOrderTestRouter(t)
	seedOrder(t, db, "R1", models.OrderStatusConfirmed)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/R1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, "R1", order.OrderRef)
	assert.Len(t, order.Items, 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
