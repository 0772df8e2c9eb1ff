package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/DJPaties/electrosaida-api/checkout"
	adminController "github.com/DJPaties/electrosaida-api/controllers/admin"
	cartControllers "github.com/DJPaties/electrosaida-api/controllers/cart"
	orderControllers "github.com/DJPaties/electrosaida-api/controllers/order"
	"github.com/DJPaties/electrosaida-api/models"
	"github.com/DJPaties/electrosaida-api/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application")

	// Init DB
	db := initDatabase(logger)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Admin{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		logger.Fatal("automigrate failed", zap.Error(err))
	}

	// Bootstrap admin account from env
	if err := adminController.SeedAdmin(db); err != nil {
		logger.Fatal("admin seed failed", zap.Error(err))
	}

	// Cart sessions: snapshot files + configured payment methods
	dataDir := getEnvOrDefault("CART_DATA_DIR", "/var/lib/electrosaida/carts")
	methods := checkout.ParseMethods(getEnvOrDefault("PAYMENT_METHODS", "cod,whish"))
	sessions := cartControllers.NewSessions(dataDir, methods, logger)
	sessions.SetPlacer(orderControllers.NewPlacer(db))

	// Gin setup
	r := gin.Default()

	// Allow large file uploads (datasheets can be big)
	r.MaxMultipartMemory = 1 << 28 // 256MB

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images and datasheets
	r.Static("/uploads", getEnvOrDefault("UPLOAD_DIR", "/var/www/electrosaida/uploads"))

	// Setup routes
	routes.SetupRoutes(r, db, sessions)

	// Prune abandoned cart snapshots daily, keep 30 days
	go startCartJanitor(sessions, 30*24*time.Hour, 24*time.Hour, logger)

	// Start server
	port := getEnvOrDefault("PORT", "8080")
	logger.Info("server running", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(logger *zap.Logger) *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			logger.Fatal("db connection failed", zap.Error(err))
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect db", zap.Error(err))
	}
	return db
}

// startCartJanitor periodically removes cart snapshots that have not
// been touched within retention.
func startCartJanitor(sessions *cartControllers.Sessions, retention, interval time.Duration, logger *zap.Logger) {
	for {
		time.Sleep(interval)
		logger.Info("pruning stale cart snapshots")
		sessions.PruneSnapshots(retention)
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
