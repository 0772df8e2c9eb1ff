package productcontroller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	productcontroller "github.com/DJPaties/electrosaida-api/controllers/product"
	"github.com/DJPaties/electrosaida-api/models"
)

func newCatalog(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Category{}))

	r := gin.New()
	r.GET("/products", productcontroller.GetProducts(db))
	r.GET("/products/:id", productcontroller.GetProductByID(db))
	r.GET("/categories", productcontroller.GetAllCategoriesWithProducts(db))
	return r, db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	tools := models.Category{Title: "Tools", SubTitle: "Bench essentials"}
	meters := models.Category{Title: "Meters", SubTitle: "Measure everything"}
	require.NoError(t, db.Create(&tools).Error)
	require.NoError(t, db.Create(&meters).Error)

	products := []models.Product{
		{Name: "Soldering Iron", Description: "60W adjustable", Price: 10, Image: "/i/1.png", InStock: 5, CategoryID: &tools.ID},
		{Name: "Digital Multimeter", Description: "auto-ranging", Price: 24.5, Image: "/i/2.png", InStock: 8, CategoryID: &meters.ID},
		{Name: "Oscilloscope", Description: "2-channel 100MHz", Price: 320, Image: "/i/3.png", InStock: 2, CategoryID: &meters.ID},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
}

func getProducts(t *testing.T, r *gin.Engine, query string) []models.Product {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products"+query, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	return products
}

func TestGetProductsFilters(t *testing.T) {
	r, db := newCatalog(t)
	seedCatalog(t, db)

	all := getProducts(t, r, "")
	assert.Len(t, all, 3)

	bySearch := getProducts(t, r, "?search=multimeter")
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Digital Multimeter", bySearch[0].Name)

	// Search ignores case regardless of the backend's LIKE semantics
	byUpperSearch := getProducts(t, r, "?search=MULTIMETER")
	require.Len(t, byUpperSearch, 1)
	assert.Equal(t, "Digital Multimeter", byUpperSearch[0].Name)

	byCategory := getProducts(t, r, "?category_id=2")
	assert.Len(t, byCategory, 2)

	byPrice := getProducts(t, r, "?min_price=20&max_price=100")
	require.Len(t, byPrice, 1)
	assert.Equal(t, "Digital Multimeter", byPrice[0].Name)

	sorted := getProducts(t, r, "?sort_by=price&order=asc")
	require.Len(t, sorted, 3)
	assert.Equal(t, "Soldering Iron", sorted[0].Name)
	assert.Equal(t, "Oscilloscope", sorted[2].Name)
}

func TestGetProductsRejectsBadParams(t *testing.T) {
	r, db := newCatalog(t)
	seedCatalog(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?min_price=cheap", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown sort columns fall back to created_at instead of erroring
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?sort_by=evil;drop", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetProductByID(t *testing.T) {
	r, db := newCatalog(t)
	seedCatalog(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Soldering Iron", p.Name)
	assert.Equal(t, "Tools", p.Category.Title)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCategoriesWithProducts(t *testing.T) {
	r, db := newCatalog(t)
	seedCatalog(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var categories []models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	require.Len(t, categories, 2)
	assert.Len(t, categories[1].Products, 2)
}

func TestDeleteCategoryDetachesProducts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Foreign keys enforced, as they are on the production database
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))

	tools := models.Category{Title: "Tools"}
	require.NoError(t, db.Create(&tools).Error)
	iron := models.Product{Name: "Soldering Iron", Price: 10, Image: "/i/1.png", CategoryID: &tools.ID}
	require.NoError(t, db.Create(&iron).Error)

	r := gin.New()
	r.DELETE("/categories/:id", productcontroller.DeleteCategory(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/categories/1", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)

	// The product survives with no category
	var orphan models.Product
	require.NoError(t, db.First(&orphan, iron.ID).Error)
	assert.Nil(t, orphan.CategoryID)
}
