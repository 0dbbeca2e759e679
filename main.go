package main

import (
	"context"
	"log"
	"net/http"

	"civicreport-be/config"
	"civicreport-be/controllers"
	"civicreport-be/repository"
	"civicreport-be/routes"
	"civicreport-be/services"
	"civicreport-be/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	config.ConnectRedis()

	var blobs storage.BlobStore
	if cfg.GCSBucket != "" {
		gcsStore, err := storage.NewGCSStore(context.Background(), cfg.GCSBucket)
		if err != nil {
			log.Fatalf("Failed to connect to GCS: %v", err)
		}
		defer gcsStore.Close()
		blobs = gcsStore
	} else {
		localStore, err := storage.NewLocalStore(cfg.UploadDir, "/static/uploads")
		if err != nil {
			log.Fatalf("Failed to prepare upload directory: %v", err)
		}
		blobs = localStore
	}

	users := repository.NewUserRepository(db)
	issues := repository.NewIssueRepository(db)

	validator := services.NewLocationValidator(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cfg.ServiceAreaKeyword, cfg.GeocodeTimeout)
	classifier := services.NewImageClassifier(cfg.InferenceURL, cfg.InferenceToken, cfg.InferenceTimeout)
	reports := services.NewReportService(issues, blobs, validator)

	authController := controllers.NewAuthController(users)
	reportController := controllers.NewReportController(reports, issues, users)
	classifyController := controllers.NewClassifyController(classifier)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendOrigin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	if cfg.GCSBucket == "" {
		r.Static("/static/uploads", cfg.UploadDir)
	}

	routes.AuthRoutes(r, authController)
	routes.ReportRoutes(r, reportController)
	routes.ClassifyRoutes(r, classifyController)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
