package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/em591991/gse-inventory/internal/procure/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService quote comparison workbook export
type ExportService struct {
	rfqRepo    *repository.RFQRepository
	aggregator *AggregatorService
}

func NewExportService(rfqRepo *repository.RFQRepository, aggregator *AggregatorService) *ExportService {
	return &ExportService{rfqRepo: rfqRepo, aggregator: aggregator}
}

// ComparisonXLSX renders an RFQ's quotes as a comparison worksheet, one
// row per (line, quote), lines grouped in order.
func (s *ExportService) ComparisonXLSX(ctx context.Context, rfqID string) ([]byte, string, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, "", err
	}
	view, err := s.aggregator.BuildReplenishmentView(ctx, rfqID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Quote Comparison"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "4472C4", Style: 2},
		},
	})
	if err != nil {
		return nil, "", err
	}

	headers := []string{
		"Line", "G-Code", "Item", "Qty Requested", "UOM",
		"Vendor Code", "Vendor", "Price Each", "Qty Available",
		"Lead Time (days)", "Manufacturer", "MPN", "Line Total",
	}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
		f.SetCellStyle(sheet, col+"1", col+"1", headerStyle)
	}

	row := 2
	for _, line := range view {
		if len(line.Quotes) == 0 {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line.LineNo)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.Item.GCode)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line.Item.Name)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), line.QtyRequested.String())
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), line.UOM)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), "(no quotes)")
			row++
			continue
		}
		for _, q := range line.Quotes {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line.LineNo)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.Item.GCode)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line.Item.Name)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), line.QtyRequested.String())
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), line.UOM)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), q.Vendor.Code)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), q.Vendor.Name)
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), q.PriceEach.String())
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), q.QtyAvailable.String())
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), q.LeadTimeDays)
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), q.Manufacturer)
			f.SetCellValue(sheet, fmt.Sprintf("L%d", row), q.ManufacturerPartNumber)
			f.SetCellValue(sheet, fmt.Sprintf("M%d", row), q.PriceEach.Mul(line.QtyRequested).String())
			row++
		}
	}

	widths := []float64{6, 14, 30, 14, 8, 12, 24, 12, 14, 16, 18, 20, 14}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s-comparison.xlsx", rfq.RFQNumber)
	return buf.Bytes(), filename, nil
}
