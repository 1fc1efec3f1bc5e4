package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"regscrape/internal/models"
	"regscrape/pkg/checksum"
)

const (
	resultFilePrefix = "regulations_comments"
	resultTimeLayout = "2006-01-02_15-04"
)

var resultColumns = []string{
	"comment_id",
	"tracking_number",
	"country",
	"state_or_province",
	"zip_code",
	"document_category",
	"document_subtype",
	"received_date",
	"url",
	"title",
	"object_id",
	"agency_id",
	"docket_id",
	"open_for_comment",
	"comment_on_document_id",
	"withdrawn",
	"restrict_reason",
	"restrict_reason_type",
	"comment",
}

type CsvService struct {
	outputDir  string
	chunkSize  int
	logService LogWriter
}

func NewCsvService(outputDir string, chunkSize int, logService LogWriter) (*CsvService, error) {
	if outputDir == "" {
		return nil, errors.New("output dir is empty")
	}
	if chunkSize < 0 {
		return nil, errors.New("chunk size must not be negative")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &CsvService{
		outputDir:  outputDir,
		chunkSize:  chunkSize,
		logService: logService,
	}, nil
}

// WriteComments writes one dated CSV file per chunk of rows. A run with
// zero rows still produces a single header-only file.
func (s *CsvService) WriteComments(ctx context.Context, runTime time.Time, comments []models.Comment, eventID *string) ([]ResultFile, error) {
	if s == nil {
		return nil, errors.New("csv service is nil")
	}
	if s.logService == nil {
		return nil, errors.New("log service is nil")
	}
	if runTime.IsZero() {
		return nil, errors.New("run time is zero")
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		failMsg := fmt.Sprintf("create output dir %s: %v", s.outputDir, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionCsvExport, LogOutcomeFail, &failMsg)
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	base := resultFileBase(runTime)
	chunks := chunkComments(comments, s.chunkSize)

	files := make([]ResultFile, 0, len(chunks))
	for part, chunk := range chunks {
		filename := fmt.Sprintf("%s_%d.csv", base, part+1)
		file, err := s.writeChunk(filename, chunk)
		if err != nil {
			failMsg := fmt.Sprintf("write %s: %v", filename, err)
			_ = s.logService.CreateLog(ctx, eventID, LogActionCsvExport, LogOutcomeFail, &failMsg)
			return nil, err
		}
		files = append(files, file)
	}

	successMsg := fmt.Sprintf("wrote files=%d rows=%d base=%s", len(files), len(comments), base)
	_ = s.logService.CreateLog(ctx, eventID, LogActionCsvExport, LogOutcomeSuccess, &successMsg)

	return files, nil
}

func (s *CsvService) writeChunk(filename string, comments []models.Comment) (ResultFile, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(resultColumns); err != nil {
		return ResultFile{}, fmt.Errorf("write header: %w", err)
	}
	for _, comment := range comments {
		if err := writer.Write(resultRow(comment)); err != nil {
			return ResultFile{}, fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return ResultFile{}, fmt.Errorf("flush csv: %w", err)
	}

	path := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return ResultFile{}, fmt.Errorf("write file: %w", err)
	}

	return ResultFile{
		Path:     path,
		Filename: filename,
		Rows:     len(comments),
		Checksum: checksum.XXHash64(buf.Bytes()),
	}, nil
}

func resultFileBase(runTime time.Time) string {
	return fmt.Sprintf("%s_%s", resultFilePrefix, runTime.UTC().Format(resultTimeLayout))
}

func chunkComments(comments []models.Comment, chunkSize int) [][]models.Comment {
	if len(comments) == 0 {
		return [][]models.Comment{nil}
	}
	if chunkSize <= 0 {
		return [][]models.Comment{comments}
	}

	var chunks [][]models.Comment
	for start := 0; start < len(comments); start += chunkSize {
		end := start + chunkSize
		if end > len(comments) {
			end = len(comments)
		}
		chunks = append(chunks, comments[start:end])
	}

	return chunks
}

func resultRow(comment models.Comment) []string {
	return []string{
		comment.CommentID,
		comment.TrackingNumber,
		comment.Country,
		comment.StateOrProvince,
		comment.ZipCode,
		comment.DocumentCategory,
		comment.DocumentSubtype,
		comment.ReceivedDate,
		comment.DetailURL,
		comment.Title,
		comment.ObjectID,
		comment.AgencyID,
		comment.DocketID,
		formatBool(comment.OpenForComment),
		comment.CommentOnDocumentID,
		formatBool(comment.Withdrawn),
		comment.RestrictReason,
		comment.RestrictReasonType,
		comment.CommentText,
	}
}

func formatBool(value *bool) string {
	if value == nil {
		return ""
	}
	return strconv.FormatBool(*value)
}
