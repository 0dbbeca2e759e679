package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the externally supplied settings for the intake and
// classification pipelines. It is read once in main and passed into each
// component at construction so the pipelines never reach for the environment
// themselves. Mongo and Redis keep their env-reading connectors below.
type Config struct {
	FrontendOrigin string

	GeocoderBaseURL    string
	GeocoderUserAgent  string
	ServiceAreaKeyword string
	GeocodeTimeout     time.Duration

	InferenceURL     string
	InferenceToken   string
	InferenceTimeout time.Duration

	// GCSBucket selects cloud storage for uploads; when empty, images are
	// written to UploadDir on disk.
	GCSBucket string
	UploadDir string
}

// Load reads the config from the environment.
func Load() Config {
	return Config{
		FrontendOrigin: envOr("FRONTEND_ORIGIN", "http://localhost:3000"),

		GeocoderBaseURL:    envOr("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:  envOr("GEOCODER_USER_AGENT", "CivicIssueReporting/1.0"),
		ServiceAreaKeyword: envOr("SERVICE_AREA_KEYWORD", "nagpur"),
		GeocodeTimeout:     envSeconds("GEOCODE_TIMEOUT_SECONDS", 10),

		InferenceURL:     envOr("INFERENCE_URL", "https://api-inference.huggingface.co/models/facebook/detr-resnet-50"),
		InferenceToken:   os.Getenv("HF_TOKEN"),
		InferenceTimeout: envSeconds("INFERENCE_TIMEOUT_SECONDS", 60),

		GCSBucket: os.Getenv("GCS_BUCKET"),
		UploadDir: envOr("UPLOAD_DIR", "static/uploads"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envSeconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
