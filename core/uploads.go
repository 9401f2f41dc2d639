package core

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MohsenMaaleki/windsightai/core/models"
	"github.com/MohsenMaaleki/windsightai/utils"
)

// allowedExtensions is the upload allow-list. Validation is by filename
// suffix only; content is not sniffed.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".mp4":  true,
	".mov":  true,
	".avi":  true,
}

// Orchestrator runs the upload/analysis lifecycle. The Detector is the
// only seam to the external model service; swapping it for a queued
// implementation later does not change any caller.
type Orchestrator struct {
	UploadDir string
	OutputDir string
	Detector  Detector

	// OnAnalysisFailure, when set, is notified after a failed run has
	// been recorded (used for ops alerting).
	OnAnalysisFailure func(uploadID uint, err error)

	// OnRenderSaved, when set, is notified after a completed run has
	// written its annotated render (used to mirror renders off-host).
	OnRenderSaved func(resultName, renderPath string)
}

// SubmitUpload stores the file under a collision-resistant name and
// creates the Upload row. The stored name keeps the sanitized declared
// stem so operators can still recognise the file on disk.
func (o *Orchestrator) SubmitUpload(db *gorm.DB, accountID uint, declaredName string, src io.Reader, size int64) (*models.Upload, error) {
	if accountID == 0 {
		return nil, &ValidationError{Message: "account_id is required"}
	}
	if declaredName == "" || src == nil {
		return nil, &ValidationError{Message: "no file provided"}
	}

	ext := strings.ToLower(filepath.Ext(declaredName))
	if !allowedExtensions[ext] {
		return nil, &ValidationError{Message: "file type not allowed: " + ext}
	}

	var account models.Account
	if err := db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "account"}
		}
		return nil, err
	}

	base := filepath.Base(declaredName)
	stem := utils.SanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)))
	storedName := stem + "_" + uuid.NewString()[:8] + ext
	storedPath := filepath.Join(o.UploadDir, storedName)

	if err := os.MkdirAll(o.UploadDir, 0o755); err != nil {
		return nil, err
	}
	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(storedPath)
		return nil, err
	}
	if size <= 0 {
		size = written
	}

	upload := models.Upload{
		AccountID:  accountID,
		Filename:   base,
		StoredName: storedName,
		StoredPath: storedPath,
		MediaType:  strings.TrimPrefix(ext, "."),
		SizeBytes:  size,
	}
	if err := db.Create(&upload).Error; err != nil {
		os.Remove(storedPath)
		return nil, err
	}

	return &upload, nil
}

// ListUploads returns the account's uploads with nested analyses. No
// ordering is guaranteed.
func ListUploads(db *gorm.DB, accountID uint) ([]models.Upload, error) {
	if accountID == 0 {
		return nil, &ValidationError{Message: "account_id is required"}
	}

	var uploads []models.Upload
	err := db.Preload("Analyses").
		Where("account_id = ?", accountID).
		Find(&uploads).Error
	if err != nil {
		return nil, err
	}
	return uploads, nil
}
