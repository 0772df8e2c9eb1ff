package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DJPaties/electrosaida-api/models"
)

// CreateProduct creates a new product with image/hover-image/datasheet
// uploads.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Required fields
		name := c.PostForm("name")
		priceStr := c.PostForm("price")
		if name == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		// Optional fields
		description := c.PostForm("description")

		var inStock int
		if v := c.PostForm("in_stock"); v != "" {
			if n, parseErr := strconv.Atoi(v); parseErr == nil {
				inStock = n
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid in_stock"})
				return
			}
		}

		var categoryID *uint
		if v := c.PostForm("category_id"); v != "" {
			cid, parseErr := strconv.ParseUint(v, 10, 64)
			if parseErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			var category models.Category
			if err := db.First(&category, uint(cid)).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
				return
			}
			categoryID = &category.ID
		}

		// Image upload (required)
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image is required"})
			return
		}
		imageURL, err := saveUpload(c, file, "products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}

		// Optional hover image and datasheet PDF
		var hoverImageURL, pdfURL string
		if file, err := c.FormFile("hover_image"); err == nil {
			if hoverImageURL, err = saveUpload(c, file, "products"); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save hover image"})
				return
			}
		}
		if file, err := c.FormFile("pdf"); err == nil {
			if pdfURL, err = saveUpload(c, file, "datasheets"); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save datasheet"})
				return
			}
		}

		newProduct := models.Product{
			Name:        name,
			Description: description,
			Price:       price,
			Image:       imageURL,
			HoverImage:  hoverImageURL,
			PDF:         pdfURL,
			InStock:     inStock,
			CategoryID:  categoryID,
		}

		if err := db.Create(&newProduct).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, newProduct)
	}
}
