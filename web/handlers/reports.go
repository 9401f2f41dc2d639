package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/MohsenMaaleki/windsightai/core"
	"github.com/MohsenMaaleki/windsightai/web/common"
)

// AnalysesReport streams an xlsx export of the account's uploads and
// analyses.
func (ep *Endpoint) AnalysesReport(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.Query("account_id"), 10, 32)
	if err != nil || accountID == 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("account_id is required"))
		return
	}

	var report *excelize.File
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		report, err = core.BuildAnalysesReport(db, uint(accountID))
		return err
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}
	defer report.Close()

	c.Header("Content-Disposition", `attachment; filename="analyses.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := report.Write(c.Writer); err != nil {
		logrus.WithError(err).Error("failed to stream analyses report")
	}
}
