package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NullString returns nil for blank strings, otherwise a pointer to the cleaned value.
func NullString(s string) *string {
	s = CleanString(s)
	if s == "" {
		return nil
	}
	return &s
}

// Getwd walks up from the working directory until it finds the module root (the directory holding go.mod).
// go test runs inside the package directory, so relative asset paths would otherwise break.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd // deployed binary without sources
		}
		currDir = newDir
	}
}
