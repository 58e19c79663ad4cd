package domain

import "time"

// ExportStatus is the state of an export job. A job never leaves
// completed or failed once it arrives there.
type ExportStatus string

// Export statuses
const (
	ExportPending   ExportStatus = "pending"
	ExportCompleted ExportStatus = "completed"
	ExportFailed    ExportStatus = "failed"
)

// ExportFormat is the requested artifact format.
type ExportFormat string

// Export formats
const (
	FormatPDF   ExportFormat = "pdf"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
	FormatPNG   ExportFormat = "png"
)

// Valid reports whether f is a known export format.
func (f ExportFormat) Valid() bool {
	switch f {
	case FormatPDF, FormatCSV, FormatExcel, FormatPNG:
		return true
	}
	return false
}

// ExportConfig is the caller-supplied description of an export. Identical
// configs are never deduplicated; every submission is an independent job.
type ExportConfig struct {
	Title       string       `json:"title,omitempty"`
	Format      ExportFormat `json:"format"`
	WidgetIDs   []string     `json:"widgetIds,omitempty"`
	IncludeData bool         `json:"includeData"`
}

// ExportJob is an asynchronous, time-limited unit of work. ExpiresAt is
// fixed at submission; consumers must treat a job past its expiry as
// inaccessible regardless of status.
type ExportJob struct {
	ID          string       `json:"id"`
	Config      ExportConfig `json:"config"`
	Status      ExportStatus `json:"status"`
	DownloadURL string       `json:"downloadUrl,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// Expired reports whether the job is past its expiry at the given instant.
func (j ExportJob) Expired(now time.Time) bool {
	return now.After(j.ExpiresAt)
}
