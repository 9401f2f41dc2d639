package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/MohsenMaaleki/windsightai/core/models"
)

// Detector is the inference boundary: source file in, detections plus an
// annotated render at renderPath out.
type Detector interface {
	Detect(ctx context.Context, sourcePath, renderPath string) ([]models.Detection, error)
}

// Analyze loads the upload, runs the detector synchronously and records
// the outcome. The call is never retried. Failed runs are persisted with
// status "failed" so the attempt leaves an audit trail, and the error is
// still surfaced to the caller as AnalysisFailedError.
func (o *Orchestrator) Analyze(ctx context.Context, db *gorm.DB, uploadID uint) (*models.Analysis, error) {
	var upload models.Upload
	if err := db.First(&upload, uploadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "upload"}
		}
		return nil, err
	}

	if _, err := os.Stat(upload.StoredPath); err != nil {
		return nil, &NotFoundError{Entity: "upload file"}
	}

	stem := strings.TrimSuffix(upload.StoredName, filepath.Ext(upload.StoredName))
	resultName := stem + "_pred.jpg"
	renderPath := filepath.Join(o.OutputDir, resultName)

	detections, err := o.Detector.Detect(ctx, upload.StoredPath, renderPath)
	if err != nil {
		failed := models.Analysis{
			UploadID:     upload.ID,
			Status:       models.AnalysisFailed,
			ErrorMessage: err.Error(),
		}
		if dbErr := db.Create(&failed).Error; dbErr != nil {
			logrus.WithError(dbErr).WithField("upload_id", upload.ID).
				Error("could not record failed analysis")
		}
		if o.OnAnalysisFailure != nil {
			o.OnAnalysisFailure(upload.ID, err)
		}
		return nil, &AnalysisFailedError{Err: err}
	}

	analysis := models.Analysis{
		UploadID:   upload.ID,
		Status:     models.AnalysisCompleted,
		ResultPath: &resultName,
		Detections: detections,
	}
	if err := db.Create(&analysis).Error; err != nil {
		return nil, err
	}

	if o.OnRenderSaved != nil {
		o.OnRenderSaved(resultName, renderPath)
	}

	logrus.WithFields(logrus.Fields{
		"upload_id":  upload.ID,
		"detections": len(detections),
	}).Info("analysis completed")

	return &analysis, nil
}
