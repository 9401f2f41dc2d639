package core

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// BuildAnalysesReport renders an account's uploads and analyses as a
// spreadsheet, one row per analysis (uploads without analyses still get a
// row). The caller owns closing the file.
func BuildAnalysesReport(db *gorm.DB, accountID uint) (*excelize.File, error) {
	uploads, err := ListUploads(db, accountID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Analyses"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Upload ID", "Filename", "Uploaded At", "Media Type",
		"Size (bytes)", "Analysis ID", "Status", "Result", "Detections", "Top Label", "Top Confidence"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	writeRow := func(values []interface{}) {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	for _, up := range uploads {
		base := []interface{}{up.ID, up.Filename, up.UploadedAt.Format("2006-01-02 15:04:05"),
			up.MediaType, up.SizeBytes}
		if len(up.Analyses) == 0 {
			writeRow(append(base, "", "", "", 0, "", ""))
			continue
		}
		for _, a := range up.Analyses {
			result := ""
			if a.ResultPath != nil {
				result = *a.ResultPath
			}
			topLabel := ""
			topConf := 0.0
			for _, d := range a.Detections {
				if d.Confidence > topConf {
					topLabel = d.Label
					topConf = d.Confidence
				}
			}
			confCell := ""
			if topLabel != "" {
				confCell = fmt.Sprintf("%.4f", topConf)
			}
			writeRow(append(base, a.ID, a.Status, result, len(a.Detections), topLabel, confCell))
		}
	}

	return f, nil
}
