package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DJPaties/electrosaida-api/cart"
	"github.com/DJPaties/electrosaida-api/models"
)

type AddCartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type UpdateQuantityInput struct {
	Delta int `json:"delta" binding:"required"`
}

// GET /cart
func GetCart(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		store := sessions.Store(sessionID)
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// POST /cart/items
func AddCartItem(db *gorm.DB, sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")

		var input AddCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// Fetch product from DB; the cart keeps a snapshot, not a reference
		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate product"
			if err == gorm.ErrRecordNotFound {
				status = http.StatusBadRequest
				errMsg = "Product does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}

		store := sessions.Store(sessionID)
		store.AddItem(cart.ProductSnapshot{
			ID:    strconv.FormatUint(uint64(product.ID), 10),
			Name:  product.Name,
			Price: product.Price,
			Image: product.Image,
		}, input.Quantity)

		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// PATCH /cart/items/:product_id
func UpdateCartItemQuantity(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		productID := c.Param("product_id")

		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		store := sessions.Store(sessionID)
		if !store.Has(productID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		store.UpdateQuantity(productID, input.Delta)

		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// DELETE /cart/items/:product_id
func DeleteCartItem(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		productID := c.Param("product_id")

		store := sessions.Store(sessionID)
		if !store.Has(productID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		store.RemoveItem(productID)

		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /cart
func ClearCart(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		sessions.Store(sessionID).Clear()
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
