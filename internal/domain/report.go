package domain

import "time"

// ReportRecordID identifies an archived report
type ReportRecordID string

// ReportRecord is the archive entry written once per completed intake flow,
// after the report was rendered and mailed.
type ReportRecord struct {
	ID           ReportRecordID `json:"id"`
	UserID       UserID         `json:"user_id"`
	Investigator string         `json:"investigator"`
	FilePath     string         `json:"file_path"`
	Recipient    string         `json:"recipient"`
	CreatedAt    time.Time      `json:"created_at"`
}
