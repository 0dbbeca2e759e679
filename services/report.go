package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"civicreport-be/models"
	"civicreport-be/storage"
	"civicreport-be/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueStore is the slice of the record store the intake path needs.
type IssueStore interface {
	Insert(ctx context.Context, issue *models.Issue) (primitive.ObjectID, error)
}

// ReportImage is one uploaded evidence photo.
type ReportImage struct {
	Filename string
	Data     []byte
}

// ReportInput is everything a submission carries.
type ReportInput struct {
	ReporterID    primitive.ObjectID
	ReporterName  string
	ReporterEmail string
	Images        []ReportImage
	Latitude      *float64
	Longitude     *float64
	Address       string
	Category      string
	Description   string
}

// ReportService composes image validation, location validation and
// persistence into one create operation. The classifier is never called
// here; a suggested category arrives, if at all, as Input.Category.
type ReportService struct {
	Issues    IssueStore
	Blobs     storage.BlobStore
	Validator *LocationValidator
}

func NewReportService(issues IssueStore, blobs storage.BlobStore, validator *LocationValidator) *ReportService {
	return &ReportService{Issues: issues, Blobs: blobs, Validator: validator}
}

func (img ReportImage) empty() bool {
	return strings.TrimSpace(img.Filename) == "" || len(img.Data) == 0
}

// CreateReport validates and persists one submission. All validation runs
// before anything is written, so a rejected or failed submission leaves no
// record and no stored images behind.
func (s *ReportService) CreateReport(ctx context.Context, input ReportInput) (*models.Issue, error) {
	count := 0
	for _, img := range input.Images {
		if !img.empty() {
			count++
		}
	}
	if count < 3 {
		return nil, ErrInsufficientEvidence
	}

	if input.Latitude == nil || input.Longitude == nil {
		return nil, ErrMissingLocation
	}
	lat, lng := *input.Latitude, *input.Longitude
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrInvalidCoordinates
	}

	result, err := s.Validator.Validate(ctx, lat, lng, input.Address)
	if err != nil {
		return nil, err
	}
	if !result.Accepted {
		return nil, ErrLocationOutOfArea
	}

	saved := make([]string, 0, count)
	for _, img := range input.Images {
		if img.empty() {
			continue
		}
		name := utils.UniqueFilename(img.Filename)
		ref, err := s.Blobs.Save(ctx, name, bytes.NewReader(img.Data))
		if err != nil {
			return nil, fmt.Errorf("saving image %s: %w", img.Filename, err)
		}
		saved = append(saved, ref)
	}

	category := models.CategoryOther
	if input.Category != "" {
		category = models.IssueCategory(input.Category)
	}

	issue := &models.Issue{
		ReporterName:  input.ReporterName,
		ReporterEmail: input.ReporterEmail,
		CreatedBy:     input.ReporterID,
		Category:      category,
		Description:   input.Description,
		Images:        saved,
		Latitude:      lat,
		Longitude:     lng,
		Address:       result.ResolvedAddress,
		Status:        models.Pending,
		CreatedAt:     time.Now().UTC(),
	}

	id, err := s.Issues.Insert(ctx, issue)
	if err != nil {
		return nil, err
	}
	issue.ID = id
	return issue, nil
}
