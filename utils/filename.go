package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SecureFilename strips directory components and anything path-like from a
// user-controlled filename, so it can be joined into a storage path safely.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "upload"
	}
	return name
}

// UniqueFilename builds a storage name that cannot collide across concurrent
// submissions: high-resolution timestamp, random component, sanitized
// original name.
func UniqueFilename(original string) string {
	u := uuid.New()
	return fmt.Sprintf("%d_%x_%s", time.Now().UnixNano(), u[:4], SecureFilename(original))
}
