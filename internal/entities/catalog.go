package entities

import "github.com/shopspring/decimal"

// Surah revelation contexts
const (
	SurahTypeMeccan  = "Meccan"
	SurahTypeMedinan = "Medinan"
)

type Surah struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Number int    `json:"number" yaml:"number"`
	Type   string `json:"type" yaml:"type"`
	Verses int    `json:"verses" yaml:"verses"`

	// Object storage location of the surah PDF, reserved when an admin attaches one
	PDFCategory string `json:"pdfCategory,omitempty" yaml:"-"`
	PDFPath     string `json:"pdfPath,omitempty" yaml:"-"`
}

type Product struct {
	ID       string          `json:"id" yaml:"id"`
	Title    string          `json:"title" yaml:"title"`
	Price    decimal.Decimal `json:"price" yaml:"-"`
	Category string          `json:"category,omitempty" yaml:"category"`
	Image    string          `json:"image,omitempty" yaml:"image"`
}

// Video is a link to lecture or recitation content, managed from the admin panel.
type Video struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Duration string `json:"duration"`
	Category string `json:"category"`
}

// Defaults for videos added without details
const (
	DefaultVideoDuration = "00:00"
	DefaultVideoCategory = "New"
)

// SystemConfig marks whether first-run data has been seeded.
type SystemConfig struct {
	ID     string `json:"id"`
	Seeded bool   `json:"seeded"`
}

const SystemConfigRecordID = "config"
