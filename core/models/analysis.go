package models

import (
	"time"
)

const (
	AnalysisCompleted = "completed"
	AnalysisFailed    = "failed"
)

// Box is a bounding box in pixel coordinates of the source image.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// Analysis records one detection run over an Upload. Rows are written once
// with a terminal status and never updated; repeated runs append new rows.
type Analysis struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id"`
	UploadID  uint      `gorm:"not null;index;column:upload_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
	Status    string    `gorm:"size:20;not null;column:status"`
	// ResultPath is the annotated output file, relative to the output
	// directory. NULL for failed runs.
	ResultPath *string     `gorm:"size:512;column:result_path"`
	Detections []Detection `gorm:"serializer:json;column:detections"`
	// ErrorMessage is set only on failed runs.
	ErrorMessage string `gorm:"size:512;column:error_message"`
}

func (Analysis) TableName() string {
	return "analyses"
}
