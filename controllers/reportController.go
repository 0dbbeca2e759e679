package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"civicreport-be/models"
	"civicreport-be/repository"
	"civicreport-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportCreator is the intake operation the controller drives.
type ReportCreator interface {
	CreateReport(ctx context.Context, input services.ReportInput) (*models.Issue, error)
}

// IssueReader is the read side of the record store used by the listing and
// stats endpoints.
type IssueReader interface {
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.IssueStatus) (int64, error)
	List(ctx context.Context, opts repository.ListOptions) ([]models.Issue, int64, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Issue, error)
	Recent(ctx context.Context, limit int) ([]models.Issue, error)
}

// UserFinder resolves the reporter identity for a submission.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type ReportController struct {
	Reports ReportCreator
	Issues  IssueReader
	Users   UserFinder
}

func NewReportController(reports ReportCreator, issues IssueReader, users UserFinder) *ReportController {
	return &ReportController{Reports: reports, Issues: issues, Users: users}
}

// CreateReport handles the submission of a new report
func (rc *ReportController) CreateReport(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reporterID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := rc.Users.FindByID(c.Request.Context(), reporterID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	var images []services.ReportImage
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image"})
			return
		}
		images = append(images, services.ReportImage{Filename: fh.Filename, Data: data})
	}

	var lat, lng *float64
	if s := c.PostForm("lat"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
			return
		}
		lat = &v
	}
	if s := c.PostForm("lng"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
			return
		}
		lng = &v
	}

	category := c.PostForm("category")
	if category != "" && !models.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	input := services.ReportInput{
		ReporterID:    reporterID,
		ReporterName:  user.Name,
		ReporterEmail: user.Email,
		Images:        images,
		Latitude:      lat,
		Longitude:     lng,
		Address:       c.PostForm("address"),
		Category:      category,
		Description:   c.PostForm("description"),
	}

	issue, err := rc.Reports.CreateReport(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientEvidence):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload at least 3 images"})
		case errors.Is(err, services.ErrMissingLocation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Location required"})
		case errors.Is(err, services.ErrInvalidCoordinates):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
		case errors.Is(err, services.ErrLocationOutOfArea):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Location validation failed: not in service area"})
		case errors.Is(err, services.ErrGeocodeUnavailable), errors.Is(err, services.ErrGeocodeMalformed):
			log.Println("Reverse geocode failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while validating location"})
		default:
			log.Println("Error creating report:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		}
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// GetStats returns the totals shown on the landing page
func (rc *ReportController) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := rc.Issues.CountAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count reports"})
		return
	}
	solved, err := rc.Issues.CountByStatus(ctx, models.Solved)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count reports"})
		return
	}
	pending, err := rc.Issues.CountByStatus(ctx, models.Pending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"solved":  solved,
		"pending": pending,
	})
}

// ListReports handles retrieving reports with filtering and pagination
func (rc *ReportController) ListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	opts := repository.ListOptions{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
	}

	issues, total, err := rc.Issues.List(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}

	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 10
	}
	totalPages := (total + int64(opts.Limit) - 1) / int64(opts.Limit)

	c.JSON(http.StatusOK, gin.H{
		"reports":      issues,
		"totalReports": total,
		"totalPages":   totalPages,
		"currentPage":  opts.Page,
	})
}

// MyReports retrieves all reports created by the authenticated user
func (rc *ReportController) MyReports(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	issues, err := rc.Issues.ListByUser(c.Request.Context(), userObjID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// RecentReports returns the most recent geotagged reports for the map view
func (rc *ReportController) RecentReports(c *gin.Context) {
	issues, err := rc.Issues.Recent(c.Request.Context(), 19)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent reports"})
		return
	}

	type point struct {
		ID        string               `json:"id"`
		Category  models.IssueCategory `json:"category"`
		Latitude  float64              `json:"latitude"`
		Longitude float64              `json:"longitude"`
		Address   string               `json:"address"`
	}

	response := make([]point, 0, len(issues))
	for _, issue := range issues {
		response = append(response, point{
			ID:        issue.ID.Hex(),
			Category:  issue.Category,
			Latitude:  issue.Latitude,
			Longitude: issue.Longitude,
			Address:   issue.Address,
		})
	}

	c.JSON(http.StatusOK, response)
}
