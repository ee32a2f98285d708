package checkoutControllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lojak57/baseform-api/checkout"
	"github.com/lojak57/baseform-api/mailer"
	"github.com/lojak57/baseform-api/models"
	"github.com/lojak57/baseform-api/store"
)

// pendingOrderTTL bounds how long a submitted-but-unpaid checkout snapshot
// is kept for the webhook to pick up.
const pendingOrderTTL = 2 * time.Hour

// pendingOrder is the snapshot written at submit time and read back when
// the gateway confirms payment.
type pendingOrder struct {
	Customer checkout.CustomerInfo `json:"customer"`
	Shipping models.Address        `json:"shipping"`
	Items    []models.CartItem     `json:"items"`
	Total    float64               `json:"total"`
}

func pendingKey(ns string) string { return "pending-order-" + ns }

func session(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	ns, ok := v.(string)
	if !exists || !ok || ns == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return ns, true
}

// GET /checkout
func GetCheckoutState(state *store.StateStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, ok := session(c)
		if !ok {
			return
		}
		flow := checkout.NewFlow(state, ns)
		c.JSON(http.StatusOK, gin.H{
			"step":     flow.Step().String(),
			"customer": flow.Customer(),
			"shipping": flow.Shipping(),
		})
	}
}

// POST /checkout/customer
func SetCustomerInfo(state *store.StateStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, ok := session(c)
		if !ok {
			return
		}
		var info checkout.CustomerInfo
		if err := c.ShouldBindJSON(&info); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		flow := checkout.NewFlow(state, ns)
		if err := flow.SetCustomerInfo(info); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"step": flow.Step().String()})
	}
}

// POST /checkout/shipping
func SetShipping(state *store.StateStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, ok := session(c)
		if !ok {
			return
		}
		var addr models.Address
		if err := c.ShouldBindJSON(&addr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		flow := checkout.NewFlow(state, ns)
		if err := flow.SetShipping(addr); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"step": flow.Step().String()})
	}
}

// POST /checkout/back
func GoBack(state *store.StateStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, ok := session(c)
		if !ok {
			return
		}
		var req struct {
			Step int `json:"step"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		flow := checkout.NewFlow(state, ns)
		if err := flow.Back(checkout.Step(req.Step)); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"step": flow.Step().String()})
	}
}

// POST /checkout/pay hands the cart and collected data to the hosted
// gateway and returns the redirect URL. A pending-order snapshot is parked
// in the state store for the webhook.
func SubmitPayment(state *store.StateStore, carts *store.CartManager, gw *checkout.PaymentClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ns, ok := session(c)
		if !ok {
			return
		}
		flow := checkout.NewFlow(state, ns)
		cart := carts.Cart(ns)

		snapshot := pendingOrder{
			Customer: flow.Customer(),
			Shipping: flow.Shipping(),
			Items:    cart.Items(),
			Total:    cart.CartTotal(),
		}

		url, ref, err := flow.Submit(cart, gw, ns)
		if err != nil {
			if errors.Is(err, checkout.ErrWrongStep) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Checkout is not ready for payment"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		if err := state.Put(pendingKey(ns), snapshot, pendingOrderTTL); err != nil {
			log.Printf("❌ Failed to park pending order for %s: %v", ns, err)
		}

		c.JSON(http.StatusOK, gin.H{"payment_url": url, "order_ref": ref})
	}
}

// PaymentWebhookHandler receives the gateway callback. An approved
// transaction writes the order record, clears the cart, and sends the
// confirmation mail.
func PaymentWebhookHandler(db *gorm.DB, state *store.StateStore, carts *store.CartManager, mail mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			return
		}

		cartID := c.PostForm("tran_cartid")
		tranStatus := c.PostForm("tran_status") // "A" = approved
		tranRef := c.PostForm("tran_ref")

		if cartID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing tran_cartid"})
			return
		}
		if tranStatus != "A" {
			c.JSON(http.StatusOK, gin.H{"message": "Payment not successful"})
			return
		}

		var snapshot pendingOrder
		if !state.Get(pendingKey(cartID), &snapshot) || len(snapshot.Items) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending order for cart"})
			return
		}

		order := models.Order{
			OrderRef:      time.Now().Format("20060102150405") + "-" + uuid.NewString(),
			CustomerName:  snapshot.Customer.Name,
			CustomerEmail: snapshot.Customer.Email,
			CustomerPhone: snapshot.Customer.Phone,
			Address:       snapshot.Shipping,
			TotalAmount:   snapshot.Total,
			Status:        models.OrderStatusConfirmed,
			PaymentStatus: models.PaymentStatusPaid,
			PaymentRef:    tranRef,
		}
		for _, it := range snapshot.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID:  it.ProductID,
				FabricCode: it.FabricCode,
				Name:       it.Name,
				Price:      it.Price,
				Quantity:   it.Quantity,
				Image:      it.Image,
			})
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&order).Error
		})
		if err != nil {
			log.Printf("❌ Failed to place order for cart %s: %v", cartID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
			return
		}

		carts.Cart(cartID).ClearCart()
		_ = state.Delete(pendingKey(cartID))

		if mail != nil {
			if err := mail.SendOrderConfirmation(&order); err != nil {
				log.Printf("⚠️ Confirmation mail failed for %s: %v", order.OrderRef, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "order_ref": order.OrderRef})
	}
}

// GET /payment/verify looks up the order written for a returning session.
// The return page calls this with the cart id it was redirected with.
func VerifyPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		ref := c.Query("order_ref")
		if ref == "" && email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_ref or email is required"})
			return
		}

		var order models.Order
		query := db.Preload("Items").Order("created_at DESC")
		if ref != "" {
			query = query.Where("order_ref = ?", ref)
		} else {
			query = query.Where("customer_email = ?", email)
		}
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
