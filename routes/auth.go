package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DJPaties/electrosaida-api/auth"
	adminController "github.com/DJPaties/electrosaida-api/controllers/admin"
)

// SetupAuthRoutes registers login/registration endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(db)) // POST /auth/register
		authGroup.POST("/login", auth.Login(db))       // POST /auth/login
	}

	r.POST("/admin/login", adminController.Login(db)) // POST /admin/login
}
