package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/DJPaties/electrosaida-api/controllers/cart"
)

// SetupRoutes is the single entry-point that wires up the storefront,
// auth, and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, sessions *cartControllers.Sessions) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Storefront routes (session-cookie scoped)
	SetupStorefrontRoutes(r, db, sessions)

	// User profile routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Admin dashboard routes (admin-JWT-protected)
	SetupAdminRoutes(r, db)
}
