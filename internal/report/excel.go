package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

// attemptExportHeader 测量历史导出表头
var attemptExportHeader = []string{
	"Attempt ID",
	"Scenario",
	"Timestamp",
	"True Systolic",
	"True Diastolic",
	"Entered Systolic",
	"Entered Diastolic",
	"Systolic Error",
	"Diastolic Error",
	"Average Error",
	"Accuracy (%)",
	"Correct",
}

// GenerateAttemptExport 生成测量历史 Excel 文件
// 每次测量一行，按记录顺序（时间递增）输出。
func GenerateAttemptExport(p *domain.UserProgress) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo 需要文件保持打开，出错路径手动 Close

	sheetName := "Attempt History"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	// 表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range attemptExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	columnWidths := []float64{
		40, // Attempt ID
		15, // Scenario
		20, // Timestamp
		14, // True Systolic
		14, // True Diastolic
		16, // Entered Systolic
		16, // Entered Diastolic
		14, // Systolic Error
		14, // Diastolic Error
		13, // Average Error
		13, // Accuracy
		10, // Correct
	}
	for i := range attemptExportHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, attempt := range p.Attempts {
		row := rowIdx + 2
		correct := "No"
		if attempt.IsCorrect {
			correct = "Yes"
		}
		values := []interface{}{
			attempt.ID,
			string(attempt.ScenarioKey),
			attempt.Timestamp.Format("2006-01-02 15:04:05"),
			attempt.TrueSystolic,
			attempt.TrueDiastolic,
			attempt.UserSystolic,
			attempt.UserDiastolic,
			attempt.SystolicError,
			attempt.DiastolicError,
			attempt.AverageError,
			attempt.Accuracy,
			correct,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell value at row %d, col %d: %w", row, col+1, err)
			}
		}
	}

	// 冻结表头
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return buf.Bytes(), nil
}
