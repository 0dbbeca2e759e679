package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"civicreport-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeIssueStore struct {
	inserted []*models.Issue
	err      error
}

func (f *fakeIssueStore) Insert(ctx context.Context, issue *models.Issue) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	f.inserted = append(f.inserted, issue)
	return primitive.NewObjectID(), nil
}

type fakeBlobStore struct {
	saved []string
	err   error
}

func (f *fakeBlobStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	ref := "/static/uploads/" + name
	f.saved = append(f.saved, ref)
	return ref, nil
}

func floatPtr(v float64) *float64 { return &v }

func threeImages() []ReportImage {
	return []ReportImage{
		{Filename: "one.jpg", Data: []byte("1")},
		{Filename: "two.jpg", Data: []byte("2")},
		{Filename: "three.jpg", Data: []byte("3")},
	}
}

// newReportService wires the orchestrator against a stub geocoder response.
func newReportService(t *testing.T, geocodeBody string, geocodeStatus int) (*ReportService, *fakeIssueStore, *fakeBlobStore) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if geocodeStatus != http.StatusOK {
			w.WriteHeader(geocodeStatus)
			return
		}
		w.Write([]byte(geocodeBody))
	}))
	t.Cleanup(srv.Close)

	store := &fakeIssueStore{}
	blobs := &fakeBlobStore{}
	validator := NewLocationValidator(srv.URL, "test", "nagpur", 2*time.Second)
	return NewReportService(store, blobs, validator), store, blobs
}

const nagpurResponse = `{"display_name": "Civil Lines, Nagpur, Maharashtra, India", "address": {"city": "Nagpur"}}`

func TestCreateReportRequiresThreeImages(t *testing.T) {
	svc, store, blobs := newReportService(t, nagpurResponse, http.StatusOK)

	_, err := svc.CreateReport(context.Background(), ReportInput{
		Images:   threeImages()[:2],
		Latitude: floatPtr(21.1), Longitude: floatPtr(79.0),
	})

	assert.True(t, errors.Is(err, ErrInsufficientEvidence))
	assert.Empty(t, store.inserted)
	assert.Empty(t, blobs.saved)
}

func TestCreateReportBlankImagesDoNotCount(t *testing.T) {
	svc, _, _ := newReportService(t, nagpurResponse, http.StatusOK)

	images := threeImages()
	images[2].Filename = "   "

	_, err := svc.CreateReport(context.Background(), ReportInput{
		Images:   images,
		Latitude: floatPtr(21.1), Longitude: floatPtr(79.0),
	})

	assert.True(t, errors.Is(err, ErrInsufficientEvidence))
}

func TestCreateReportRequiresLocation(t *testing.T) {
	svc, _, _ := newReportService(t, nagpurResponse, http.StatusOK)

	_, err := svc.CreateReport(context.Background(), ReportInput{
		Images:    threeImages(),
		Longitude: floatPtr(79.0),
	})

	assert.True(t, errors.Is(err, ErrMissingLocation))
}

func TestCreateReportRejectsOutOfRangeCoordinates(t *testing.T) {
	svc, _, _ := newReportService(t, nagpurResponse, http.StatusOK)

	_, err := svc.CreateReport(context.Background(), ReportInput{
		Images:   threeImages(),
		Latitude: floatPtr(95), Longitude: floatPtr(79.0),
	})

	assert.True(t, errors.Is(err, ErrInvalidCoordinates))
}

func TestCreateReportRejectsOutsideServiceArea(t *testing.T) {
	svc, store, blobs := newReportService(t,
		`{"display_name": "Mumbai, India", "address": {"city": "Mumbai"}}`, http.StatusOK)

	_, err := svc.CreateReport(context.Background(), ReportInput{
		Images:   threeImages(),
		Latitude: floatPtr(18.9), Longitude: floatPtr(72.8),
	})

	assert.True(t, errors.Is(err, ErrLocationOutOfArea))
	assert.Empty(t, store.inserted)
	assert.Empty(t, blobs.saved)
}

func TestCreateReportGeocoderDownLeavesNothingBehind(t *testing.T) {
	svc, store, blobs := newReportService(t, "", http.StatusInternalServerError)

	_, err := svc.CreateReport(context.Background(), ReportInput{
		Images:   threeImages(),
		Latitude: floatPtr(21.1), Longitude: floatPtr(79.0),
	})

	assert.True(t, errors.Is(err, ErrGeocodeUnavailable))
	assert.Empty(t, store.inserted)
	assert.Empty(t, blobs.saved)
}

func TestCreateReportSuccess(t *testing.T) {
	svc, store, blobs := newReportService(t, nagpurResponse, http.StatusOK)

	before := time.Now().UTC()
	issue, err := svc.CreateReport(context.Background(), ReportInput{
		ReporterID:    primitive.NewObjectID(),
		ReporterName:  "Asha",
		ReporterEmail: "asha@example.com",
		Images:        threeImages(),
		Latitude:      floatPtr(21.1458),
		Longitude:     floatPtr(79.0882),
		Description:   "Deep pothole near the junction",
	})
	require.NoError(t, err)

	assert.False(t, issue.ID.IsZero())
	assert.Equal(t, models.Pending, issue.Status)
	assert.Equal(t, models.CategoryOther, issue.Category) // no override supplied
	assert.Equal(t, "Civil Lines, Nagpur, Maharashtra, India", issue.Address)
	assert.Len(t, issue.Images, 3)
	assert.GreaterOrEqual(t, len(blobs.saved), 3)
	assert.Len(t, store.inserted, 1)

	assert.False(t, issue.CreatedAt.Before(before))
	assert.False(t, issue.CreatedAt.After(time.Now().UTC()))

	// stored names carry the sanitized original and differ from each other
	assert.Contains(t, issue.Images[0], "one.jpg")
	assert.NotEqual(t, issue.Images[0], issue.Images[1])
}

func TestCreateReportTimestampsAreMonotonic(t *testing.T) {
	svc, store, _ := newReportService(t, nagpurResponse, http.StatusOK)

	input := ReportInput{
		Images:   threeImages(),
		Latitude: floatPtr(21.1), Longitude: floatPtr(79.0),
	}

	first, err := svc.CreateReport(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.CreateReport(context.Background(), input)
	require.NoError(t, err)

	assert.False(t, second.CreatedAt.Before(first.CreatedAt))
	assert.Len(t, store.inserted, 2)
}

func TestCreateReportCategoryOverride(t *testing.T) {
	svc, _, _ := newReportService(t, nagpurResponse, http.StatusOK)

	issue, err := svc.CreateReport(context.Background(), ReportInput{
		Images:   threeImages(),
		Latitude: floatPtr(21.1), Longitude: floatPtr(79.0),
		Category: string(models.CategoryGarbage),
	})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryGarbage, issue.Category)
}

func TestCreateReportSkipsBlankExtras(t *testing.T) {
	svc, _, blobs := newReportService(t, nagpurResponse, http.StatusOK)

	images := append(threeImages(), ReportImage{Filename: "", Data: nil})

	issue, err := svc.CreateReport(context.Background(), ReportInput{
		Images:   images,
		Latitude: floatPtr(21.1), Longitude: floatPtr(79.0),
	})
	require.NoError(t, err)

	assert.Len(t, issue.Images, 3)
	assert.Len(t, blobs.saved, 3)
}

func TestCreateReportStorageFailure(t *testing.T) {
	svc, store, blobs := newReportService(t, nagpurResponse, http.StatusOK)
	blobs.err = errors.New("disk full")

	_, err := svc.CreateReport(context.Background(), ReportInput{
		Images:   threeImages(),
		Latitude: floatPtr(21.1), Longitude: floatPtr(79.0),
	})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInsufficientEvidence))
	assert.Empty(t, store.inserted)
}

func TestCreateReportInsertFailure(t *testing.T) {
	svc, store, _ := newReportService(t, nagpurResponse, http.StatusOK)
	store.err = errors.New("connection reset")

	_, err := svc.CreateReport(context.Background(), ReportInput{
		Images:   threeImages(),
		Latitude: floatPtr(21.1), Longitude: floatPtr(79.0),
	})

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "connection reset"))
}
