package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DJPaties/electrosaida-api/models"
)

// UpdateProduct updates an existing product by ID.
// Accepts the same fields as CreateProduct; files are optional.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Category").First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		// Helper to parse float fields safely
		parseFloat := func(val string) *float64 {
			if val == "" {
				return nil
			}
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return &f
			}
			return nil
		}

		// Helper to parse int fields safely
		parseInt := func(val string) *int {
			if val == "" {
				return nil
			}
			if i, err := strconv.Atoi(val); err == nil {
				return &i
			}
			return nil
		}

		// Parse form fields (optional updates)
		if v := c.PostForm("name"); v != "" {
			product.Name = v
		}
		if v := c.PostForm("description"); v != "" {
			product.Description = v
		}
		if v := parseFloat(c.PostForm("price")); v != nil {
			product.Price = *v
		}
		if v := parseInt(c.PostForm("in_stock")); v != nil {
			product.InStock = *v
		}

		if v := c.PostForm("category_id"); v != "" {
			if cid, parseErr := strconv.ParseUint(v, 10, 64); parseErr == nil {
				var category models.Category
				if err := db.First(&category, uint(cid)).Error; err == nil {
					product.CategoryID = &category.ID
					product.Category = category
				}
			}
		}

		// Optional file replacements
		if file, err := c.FormFile("image"); err == nil {
			url, saveErr := saveUpload(c, file, "products")
			if saveErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
				return
			}
			product.Image = url
		}
		if file, err := c.FormFile("hover_image"); err == nil {
			url, saveErr := saveUpload(c, file, "products")
			if saveErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save hover image"})
				return
			}
			product.HoverImage = url
		}
		if file, err := c.FormFile("pdf"); err == nil {
			url, saveErr := saveUpload(c, file, "datasheets")
			if saveErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save datasheet"})
				return
			}
			product.PDF = url
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
