package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"regscrape/internal/models"
	"regscrape/pkg/checksum"

	"github.com/xuri/excelize/v2"
)

const commentsSheetName = "Comments"

type XlsxService struct {
	outputDir  string
	logService LogWriter
}

func NewXlsxService(outputDir string, logService LogWriter) (*XlsxService, error) {
	if outputDir == "" {
		return nil, errors.New("output dir is empty")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &XlsxService{
		outputDir:  outputDir,
		logService: logService,
	}, nil
}

// WriteWorkbook mirrors the CSV export as a single-sheet workbook.
func (s *XlsxService) WriteWorkbook(ctx context.Context, runTime time.Time, comments []models.Comment, eventID *string) (ResultFile, error) {
	if s == nil {
		return ResultFile{}, errors.New("xlsx service is nil")
	}
	if s.logService == nil {
		return ResultFile{}, errors.New("log service is nil")
	}
	if runTime.IsZero() {
		return ResultFile{}, errors.New("run time is zero")
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		failMsg := fmt.Sprintf("create output dir %s: %v", s.outputDir, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionXlsxExport, LogOutcomeFail, &failMsg)
		return ResultFile{}, fmt.Errorf("create output dir: %w", err)
	}

	filename := resultFileBase(runTime) + ".xlsx"
	path := filepath.Join(s.outputDir, filename)

	file, err := s.buildWorkbook(comments, path)
	if err != nil {
		failMsg := fmt.Sprintf("write %s: %v", filename, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionXlsxExport, LogOutcomeFail, &failMsg)
		return ResultFile{}, err
	}
	file.Filename = filename

	successMsg := fmt.Sprintf("wrote %s rows=%d", filename, len(comments))
	_ = s.logService.CreateLog(ctx, eventID, LogActionXlsxExport, LogOutcomeSuccess, &successMsg)

	return file, nil
}

func (s *XlsxService) buildWorkbook(comments []models.Comment, path string) (ResultFile, error) {
	workbook := excelize.NewFile()

	if err := workbook.SetSheetName("Sheet1", commentsSheetName); err != nil {
		return ResultFile{}, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(resultColumns))
	for i, column := range resultColumns {
		header[i] = column
	}
	if err := workbook.SetSheetRow(commentsSheetName, "A1", &header); err != nil {
		return ResultFile{}, fmt.Errorf("write header row: %w", err)
	}

	for i, comment := range comments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return ResultFile{}, fmt.Errorf("cell name for row %d: %w", i+2, err)
		}

		values := resultRow(comment)
		row := make([]interface{}, len(values))
		for j, value := range values {
			row[j] = value
		}
		if err := workbook.SetSheetRow(commentsSheetName, cell, &row); err != nil {
			return ResultFile{}, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		closeErr := workbook.Close()
		if closeErr != nil {
			return ResultFile{}, fmt.Errorf("close workbook: %w", closeErr)
		}
		return ResultFile{}, fmt.Errorf("serialize workbook: %w", err)
	}
	if err := workbook.Close(); err != nil {
		return ResultFile{}, fmt.Errorf("close workbook: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return ResultFile{}, fmt.Errorf("write file: %w", err)
	}

	return ResultFile{
		Path:     path,
		Rows:     len(comments),
		Checksum: checksum.XXHash64(buf.Bytes()),
	}, nil
}
