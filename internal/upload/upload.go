// Package upload describes the object storage collaborator that receives Quran PDFs.
// The record store never calls it; an admin surface hands it files and keeps the
// returned URL and storage path.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

type Category string

const (
	CategoryFull        Category = "full"
	CategoryJuz         Category = "juz"
	CategorySurah       Category = "surah"
	CategoryTranslation Category = "translation"
	CategoryTafsir      Category = "tafsir"
)

var ErrInvalidCategory = errors.New("invalid upload category")

// Blob is one file handed to an Uploader.
type Blob struct {
	Title       string
	Category    Category
	Tag         string
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Result locates a stored blob.
type Result struct {
	URL         string `json:"url"`
	StoragePath string `json:"storagePath"`
}

// Uploader stores blobs and makes them publicly readable.
type Uploader interface {
	Upload(ctx context.Context, blob Blob) (*Result, error)
	Delete(ctx context.Context, storagePath string) error
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryFull, CategoryJuz, CategorySurah, CategoryTranslation, CategoryTafsir:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ObjectPath returns where a blob is stored: "quran/<category>/<unix millis>_<filename>".
func ObjectPath(category Category, filename string, now time.Time) string {
	return fmt.Sprintf("quran/%s/%d_%s", category, now.UnixMilli(), SanitizeFilename(filename))
}

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceChars      = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes filename safe as the last segment of an object path.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = whitespaceChars.ReplaceAllString(filename, "_")
	filename = strings.Trim(filename, "._")

	if len(filename) > 200 {
		filename = filename[:200]
	}
	if filename == "" {
		filename = "upload"
	}
	return filename
}
