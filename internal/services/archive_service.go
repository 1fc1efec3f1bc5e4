package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"regscrape/pkg/checksum"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const archiveSuffix = ".msgpack.lz4"

// ArchiveService keeps the untouched API payloads of a run so records
// can be reprocessed without hitting the rate-limited API again.
type ArchiveService struct {
	outputDir  string
	logService LogWriter
}

func NewArchiveService(outputDir string, logService LogWriter) (*ArchiveService, error) {
	if outputDir == "" {
		return nil, errors.New("output dir is empty")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &ArchiveService{
		outputDir:  outputDir,
		logService: logService,
	}, nil
}

func (s *ArchiveService) WriteArchive(ctx context.Context, runTime time.Time, payloads []RawComment, eventID *string) (ResultFile, error) {
	if s == nil {
		return ResultFile{}, errors.New("archive service is nil")
	}
	if s.logService == nil {
		return ResultFile{}, errors.New("log service is nil")
	}
	if runTime.IsZero() {
		return ResultFile{}, errors.New("run time is zero")
	}
	if len(payloads) == 0 {
		return ResultFile{}, errors.New("payloads are empty")
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		failMsg := fmt.Sprintf("create output dir %s: %v", s.outputDir, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionArchiveWrite, LogOutcomeFail, &failMsg)
		return ResultFile{}, fmt.Errorf("create output dir: %w", err)
	}

	encoded, err := msgpack.Marshal(payloads)
	if err != nil {
		failMsg := fmt.Sprintf("encode archive: %v", err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionArchiveWrite, LogOutcomeFail, &failMsg)
		return ResultFile{}, fmt.Errorf("encode archive: %w", err)
	}

	var buf bytes.Buffer
	compressor := lz4.NewWriter(&buf)
	if _, err := compressor.Write(encoded); err != nil {
		failMsg := fmt.Sprintf("compress archive: %v", err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionArchiveWrite, LogOutcomeFail, &failMsg)
		return ResultFile{}, fmt.Errorf("compress archive: %w", err)
	}
	if err := compressor.Close(); err != nil {
		failMsg := fmt.Sprintf("close compressor: %v", err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionArchiveWrite, LogOutcomeFail, &failMsg)
		return ResultFile{}, fmt.Errorf("close compressor: %w", err)
	}

	filename := resultFileBase(runTime) + archiveSuffix
	path := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		failMsg := fmt.Sprintf("write %s: %v", filename, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionArchiveWrite, LogOutcomeFail, &failMsg)
		return ResultFile{}, fmt.Errorf("write archive: %w", err)
	}

	successMsg := fmt.Sprintf("wrote %s payloads=%d bytes=%d", filename, len(payloads), buf.Len())
	_ = s.logService.CreateLog(ctx, eventID, LogActionArchiveWrite, LogOutcomeSuccess, &successMsg)

	return ResultFile{
		Path:     path,
		Filename: filename,
		Rows:     len(payloads),
		Checksum: checksum.XXHash64(buf.Bytes()),
	}, nil
}

// ReadArchive restores the payloads written by WriteArchive.
func (s *ArchiveService) ReadArchive(ctx context.Context, path string) ([]RawComment, error) {
	if s == nil {
		return nil, errors.New("archive service is nil")
	}
	if path == "" {
		return nil, errors.New("path is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	decompressed, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("decompress archive: %w", err)
	}

	var payloads []RawComment
	if err := msgpack.Unmarshal(decompressed, &payloads); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}

	return payloads, nil
}
