package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"civicreport-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T, handler http.HandlerFunc) *ImageClassifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewImageClassifier(srv.URL, "test-token", 2*time.Second)
}

func TestClassifyPicksTopPrediction(t *testing.T) {
	var gotAuth, gotContentType string
	ic := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`[{"label": "pothole", "score": 0.87}, {"label": "tree", "score": 0.41}]`))
	})

	result, err := ic.Classify(context.Background(), []byte("fakeimage"), "street.jpg")
	require.NoError(t, err)

	assert.Equal(t, "pothole", result.TopLabel)
	assert.Equal(t, 0.87, result.TopScore)
	assert.Equal(t, models.CategoryRoadPotholes, result.Category)
	assert.Equal(t, "Auto-detected: pothole (confidence 0.87).", result.Description)
	assert.Len(t, result.Labels, 2)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.True(t, strings.HasPrefix(gotContentType, "multipart/form-data"))
}

func TestClassifyNonListResponse(t *testing.T) {
	ic := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	result, err := ic.Classify(context.Background(), []byte("x"), "a.jpg")
	require.NoError(t, err)

	require.Len(t, result.Labels, 1)
	assert.Equal(t, float64(0), result.Labels[0].Score)
	assert.Equal(t, float64(0), result.TopScore)
	assert.Equal(t, models.CategoryOther, result.Category)
}

func TestClassifyScalarResponseKeepsText(t *testing.T) {
	ic := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"model is loading"`))
	})

	result, err := ic.Classify(context.Background(), []byte("x"), "a.jpg")
	require.NoError(t, err)

	require.Len(t, result.Labels, 1)
	assert.Equal(t, "model is loading", result.TopLabel)
	assert.Equal(t, models.CategoryOther, result.Category)
}

func TestClassifyEmptyList(t *testing.T) {
	ic := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	result, err := ic.Classify(context.Background(), []byte("x"), "a.jpg")
	require.NoError(t, err)

	assert.Empty(t, result.Labels)
	assert.Equal(t, "Unknown", result.TopLabel)
	assert.Equal(t, float64(0), result.TopScore)
	assert.Equal(t, models.CategoryOther, result.Category)
	assert.Equal(t, "Auto-detected: Unknown (confidence 0.00).", result.Description)
}

func TestClassifyDefaultsMissingFields(t *testing.T) {
	ic := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"score": 0.5}, {"label": "bench"}, "garbage-entry"]`))
	})

	result, err := ic.Classify(context.Background(), []byte("x"), "a.jpg")
	require.NoError(t, err)

	require.Len(t, result.Labels, 3)
	assert.Equal(t, models.Prediction{Label: "Unknown", Score: 0.5}, result.Labels[0])
	assert.Equal(t, models.Prediction{Label: "bench", Score: 0}, result.Labels[1])
	assert.Equal(t, models.Prediction{Label: "Unknown", Score: 0}, result.Labels[2])
	assert.Equal(t, "Unknown", result.TopLabel)
}

func TestClassifyTieKeepsFirstSeen(t *testing.T) {
	ic := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"label": "lamp", "score": 0.5}, {"label": "tree", "score": 0.5}]`))
	})

	result, err := ic.Classify(context.Background(), []byte("x"), "a.jpg")
	require.NoError(t, err)

	assert.Equal(t, "lamp", result.TopLabel)
	assert.Equal(t, models.CategoryStreetlight, result.Category)
}

func TestClassifyUnavailableOnErrorStatus(t *testing.T) {
	ic := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := ic.Classify(context.Background(), []byte("x"), "a.jpg")
	assert.True(t, errors.Is(err, ErrClassifierUnavailable))
}

func TestClassifyMalformedResponse(t *testing.T) {
	ic := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	})

	_, err := ic.Classify(context.Background(), []byte("x"), "a.jpg")
	assert.True(t, errors.Is(err, ErrClassifierMalformedResponse))
}

func TestCategoryForLabel(t *testing.T) {
	cases := []struct {
		label string
		want  models.IssueCategory
	}{
		{"pothole", models.CategoryRoadPotholes},
		{"Pothole in road", models.CategoryRoadPotholes},
		// "manhole" must land on potholes through the "hole" rule
		{"manhole", models.CategoryRoadPotholes},
		{"manhole cover", models.CategoryRoadPotholes},
		{"garbage truck", models.CategoryGarbage},
		{"Trash heap", models.CategoryGarbage},
		{"rubbish", models.CategoryGarbage},
		{"streetlight", models.CategoryStreetlight},
		{"street lamp", models.CategoryStreetlight},
		{"utility pole", models.CategoryStreetlight},
		{"water pipe", models.CategoryWaterSupply},
		{"open drain", models.CategoryDrainage},
		{"sports car", models.CategoryRoadTraffic},
		{"vehicle", models.CategoryRoadTraffic},
		{"tree", models.CategoryOther},
		{"zebra", models.CategoryOther},
		{"", models.CategoryOther},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CategoryForLabel(tc.label), "label %q", tc.label)
	}
}
