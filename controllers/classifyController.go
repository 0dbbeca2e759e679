package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"civicreport-be/services"

	"github.com/gin-gonic/gin"
)

type ClassifyController struct {
	Classifier *services.ImageClassifier
}

func NewClassifyController(classifier *services.ImageClassifier) *ClassifyController {
	return &ClassifyController{Classifier: classifier}
}

// Describe suggests a category and description for an uploaded photo. The
// suggestion is advisory only; submitting a report does not go through here.
func (cc *ClassifyController) Describe(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil || strings.TrimSpace(fh.Filename) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image"})
		return
	}

	result, err := cc.Classifier.Classify(c.Request.Context(), data, fh.Filename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClassifierUnavailable):
			log.Println("Inference request error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to call inference API"})
		case errors.Is(err, services.ErrClassifierMalformedResponse):
			log.Println("Invalid inference JSON:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid response from inference API"})
		default:
			log.Println("Classification failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Classification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":    result.Category,
		"description": result.Description,
		"raw_labels":  result.Labels,
	})
}
