package services

import (
	"errors"

	"github.com/username/noonfolio/src/models"
)

var (
	ErrParsingFailed    = errors.New("error parsing file")
	ErrProcessingFailed = errors.New("error processing rows")
	ErrFileNotFound     = errors.New("file not found")
	ErrRowNotFound      = errors.New("aggregated row not found")
	ErrUnknownChannel   = errors.New("unknown channel")
)

// BlobStore is the narrow storage contract the services consume. Implemented
// by storage.GitHubStore; faked in tests.
type BlobStore interface {
	Get(path string) (data []byte, sha string, found bool, err error)
	Put(path string, data []byte, message string) error
	List(prefix string) ([]string, error)
	Delete(path string, message string) error
}

// TrialPriceUpdate addresses one aggregated row and the trial price to apply
// to it. Key is the shipment id for FBB/FBN and the order id for OTHER;
// RowIndex disambiguates between FBN rows sharing a shipment id (that table
// is never grouped).
type TrialPriceUpdate struct {
	Channel    models.Channel `json:"channel"`
	Key        string         `json:"key"`
	RowIndex   int            `json:"row_index"`
	TrialPrice float64        `json:"trial_price"`
}

// ReportService is the core orchestration: one file load triggers one full
// resolve -> classify -> aggregate pass, cached until the file changes.
type ReportService interface {
	ListFiles() ([]string, error)
	UploadFile(name string, data []byte) error
	DeleteFile(name string) error
	GetReport(name string) (*models.CommissionReport, error)
	ApplyTrialPrice(name string, update TrialPriceUpdate) (models.Row, error)
	BatchLookup(name string, keys []string) (models.BatchTotals, error)
	ExportWorkbook(name string) ([]byte, error)
	SaveModified(name string) (string, error)
}

// ExportService serializes the three channel tables into one workbook blob.
type ExportService interface {
	BuildWorkbook(report *models.CommissionReport) ([]byte, error)
}

// ImageService looks up product photos by SKU. Absence is a normal outcome.
type ImageService interface {
	GetSKUImage(sku string) (data []byte, contentType string, found bool, err error)
}
