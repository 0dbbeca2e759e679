package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"civicreport-be/models"
)

// ImageClassifier labels an image through an external inference endpoint and
// maps the top label onto a fixed issue category. Results are advisory: an
// odd upstream payload degrades to an "Unknown" prediction instead of
// failing the caller.
type ImageClassifier struct {
	Endpoint string
	Token    string
	client   *http.Client
}

func NewImageClassifier(endpoint, token string, timeout time.Duration) *ImageClassifier {
	return &ImageClassifier{
		Endpoint: endpoint,
		Token:    token,
		client:   &http.Client{Timeout: timeout},
	}
}

// categoryRule entries are evaluated top to bottom over the lower-cased
// label; the first keyword found wins, so more specific keywords must come
// first ("manhole" is caught by the earlier "hole" rule either way, and a
// test pins that it lands on potholes).
type categoryRule struct {
	keyword  string
	category models.IssueCategory
}

var categoryRules = []categoryRule{
	{"pothole", models.CategoryRoadPotholes},
	{"hole", models.CategoryRoadPotholes},
	{"road", models.CategoryRoadPotholes},
	{"garbage", models.CategoryGarbage},
	{"trash", models.CategoryGarbage},
	{"rubbish", models.CategoryGarbage},
	{"streetlight", models.CategoryStreetlight},
	{"lamp", models.CategoryStreetlight},
	{"pole", models.CategoryStreetlight},
	{"water", models.CategoryWaterSupply},
	{"drain", models.CategoryDrainage},
	{"manhole", models.CategoryRoadPotholes},
	{"car", models.CategoryRoadTraffic},
	{"vehicle", models.CategoryRoadTraffic},
	{"tree", models.CategoryOther},
}

// CategoryForLabel maps a free-text classifier label onto an issue category.
// Every label resolves; unmatched ones fall through to Other.
func CategoryForLabel(label string) models.IssueCategory {
	lower := strings.ToLower(label)
	for _, rule := range categoryRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.category
		}
	}
	return models.CategoryOther
}

// Classify submits the image bytes to the inference endpoint and normalizes
// whatever comes back into a ClassificationResult.
func (ic *ImageClassifier) Classify(ctx context.Context, image []byte, filename string) (models.ClassificationResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return models.ClassificationResult{}, err
	}
	if _, err := part.Write(image); err != nil {
		return models.ClassificationResult{}, err
	}
	if err := writer.Close(); err != nil {
		return models.ClassificationResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ic.Endpoint, &body)
	if err != nil {
		return models.ClassificationResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+ic.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := ic.client.Do(req)
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ClassificationResult{}, fmt.Errorf("%w: status %d", ErrClassifierUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}

	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: %v", ErrClassifierMalformedResponse, err)
	}

	labels := normalizePredictions(payload)
	top := topPrediction(labels)

	return models.ClassificationResult{
		Labels:      labels,
		TopLabel:    top.Label,
		TopScore:    top.Score,
		Category:    CategoryForLabel(top.Label),
		Description: fmt.Sprintf("Auto-detected: %s (confidence %.2f).", top.Label, top.Score),
	}, nil
}

// normalizePredictions tolerates any upstream shape: a list becomes
// (label, score) pairs with defaults for missing fields, and anything else
// is wrapped as a single zero-confidence entry carrying the stringified
// payload.
func normalizePredictions(payload interface{}) []models.Prediction {
	list, ok := payload.([]interface{})
	if !ok {
		return []models.Prediction{{Label: stringify(payload), Score: 0}}
	}

	preds := make([]models.Prediction, 0, len(list))
	for _, item := range list {
		pred := models.Prediction{Label: "Unknown"}
		if m, ok := item.(map[string]interface{}); ok {
			if label, ok := m["label"].(string); ok && label != "" {
				pred.Label = label
			}
			if score, ok := m["score"].(float64); ok {
				pred.Score = score
			}
		}
		preds = append(preds, pred)
	}
	return preds
}

// topPrediction picks the highest-confidence entry; ties keep the first seen.
func topPrediction(preds []models.Prediction) models.Prediction {
	if len(preds) == 0 {
		return models.Prediction{Label: "Unknown", Score: 0}
	}
	top := preds[0]
	for _, p := range preds[1:] {
		if p.Score > top.Score {
			top = p
		}
	}
	return top
}

func stringify(payload interface{}) string {
	if payload == nil {
		return "Unknown"
	}
	if s, ok := payload.(string); ok && s != "" {
		return s
	}
	raw, err := json.Marshal(payload)
	if err != nil || len(raw) == 0 {
		return "Unknown"
	}
	return string(raw)
}
