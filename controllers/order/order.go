package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DJPaties/electrosaida-api/checkout"
	cartControllers "github.com/DJPaties/electrosaida-api/controllers/cart"
	"github.com/DJPaties/electrosaida-api/models"
)

// -------- Request Structs --------

type SelectPaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type PlaceOrderRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusConfirmed):
		return models.OrderStatusConfirmed, nil
	case string(models.OrderStatusReadyToShip):
		return models.OrderStatusReadyToShip, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusReturned):
		return models.OrderStatusReturned, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// -------- Core Logic --------

// NewPlacer returns the submit-time hook for checkout flows: it turns a
// confirmation into a persisted order inside a transaction, deducting
// stock under row locks. An error aborts the submission before the cart
// is cleared, so the shopper can retry.
func NewPlacer(db *gorm.DB) cartControllers.PlaceFunc {
	return func(sessionID string, conf checkout.Confirmation) error {
		var order models.Order

		err := db.Transaction(func(tx *gorm.DB) error {
			var orderItems []models.OrderItem

			for _, item := range conf.Items {
				productID, err := strconv.ParseUint(item.ID, 10, 64)
				if err != nil {
					return errors.New("invalid product id in cart: " + item.ID)
				}

				var product models.Product
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&product, "id = ?", uint(productID)).Error; err != nil {
					return errors.New("product no longer available: " + item.Name)
				}

				if product.InStock < item.Quantity {
					return errors.New("insufficient stock for product: " + item.Name)
				}

				// Deduct stock
				product.InStock -= item.Quantity
				if err := tx.Save(&product).Error; err != nil {
					return err
				}

				orderItems = append(orderItems, models.OrderItem{
					ProductID: item.ID,
					Name:      item.Name,
					Image:     item.Image,
					Price:     item.Price,
					Quantity:  item.Quantity,
				})
			}

			order = models.Order{
				OrderRef:      conf.OrderRef,
				SessionID:     sessionID,
				Items:         orderItems,
				TotalAmount:   conf.TotalPrice,
				Status:        models.OrderStatusPending,
				PaymentMethod: string(conf.Method),
				CreatedAt:     conf.PlacedAt,
			}

			return tx.Create(&order).Error
		})
		if err != nil {
			return err
		}

		broadcastNewOrder(order)
		return nil
	}
}

// -------- Handlers --------

// GET /checkout
func GetCheckoutStateHandler(sessions *cartControllers.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		flow := sessions.Flow(sessionID)
		selected, _ := flow.Selected()
		c.JSON(http.StatusOK, gin.H{
			"state":           flow.State().String(),
			"payment_methods": flow.Methods(),
			"selected_method": selected,
		})
	}
}

// POST /checkout/payment-method
func SelectPaymentMethodHandler(sessions *cartControllers.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")

		var req SelectPaymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		flow := sessions.Flow(sessionID)
		if err := flow.SelectMethod(checkout.PaymentMethod(req.PaymentMethod)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"state": flow.State().String(), "selected_method": req.PaymentMethod})
	}
}

// POST /checkout — submits the current cart as an order
func PlaceOrderHandler(sessions *cartControllers.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")

		var req PlaceOrderRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		flow := sessions.Flow(sessionID)
		if req.PaymentMethod != "" {
			if err := flow.SelectMethod(checkout.PaymentMethod(req.PaymentMethod)); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		conf, err := flow.Submit()
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "No items to proceed with"})
			case errors.Is(err, checkout.ErrNoPaymentMethod):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a payment method"})
			case errors.Is(err, checkout.ErrAlreadySubmitted):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   "Order placed successfully",
			"order_ref": conf.OrderRef,
			"redirect":  "/",
		})
	}
}

// GET /orders — orders placed from this browsing session
func GetSessionOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		var orders []models.Order
		if err := db.
			Where("session_id = ?", sessionID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders/:orderID — numeric id or order_ref
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Where("id = ? OR order_ref = ?", id, id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// PATCH /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// DELETE /admin/orders/:orderID
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", orderID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id = ?", orderID).
				Delete(&models.Order{}).Error; err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
