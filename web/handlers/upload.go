package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MohsenMaaleki/windsightai/core"
	"github.com/MohsenMaaleki/windsightai/core/models"
	"github.com/MohsenMaaleki/windsightai/web/common"
)

// Upload accepts a multipart form with account_id and file fields.
func (ep *Endpoint) Upload(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.PostForm("account_id"), 10, 32)
	if err != nil || accountID == 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("account_id is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("no file provided"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("could not read file"))
		return
	}
	defer src.Close()

	var upload *models.Upload
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		upload, err = ep.Orc.SubmitUpload(db, uint(accountID), fileHeader.Filename, src, fileHeader.Size)
		return err
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{
		"id":       upload.ID,
		"filename": upload.StoredName,
	}))
}

func (ep *Endpoint) Analyze(c *gin.Context) {
	uploadID, err := strconv.ParseUint(c.Param("upload_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid upload id"))
		return
	}

	var analysis *models.Analysis
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		analysis, err = ep.Orc.Analyze(c.Request.Context(), db, uint(uploadID))
		return err
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"id":         analysis.ID,
		"status":     analysis.Status,
		"outputPath": analysis.ResultPath,
		"detections": analysis.Detections,
	}))
}

func (ep *Endpoint) ListUploads(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.Query("account_id"), 10, 32)
	if err != nil || accountID == 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("account_id is required"))
		return
	}

	var uploads []models.Upload
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		uploads, err = core.ListUploads(db, uint(accountID))
		return err
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	dtos := make([]UploadDTO, len(uploads))
	for i, up := range uploads {
		dtos[i] = toUploadDTO(up)
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(dtos))
}
