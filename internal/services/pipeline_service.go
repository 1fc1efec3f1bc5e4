package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"regscrape/internal/models"

	"github.com/google/uuid"
)

const postedWindowLayout = "2006-01-02"

type PipelineService struct {
	docketService  DocketProvider
	commentSource  CommentSource
	dataService    CommentStorer
	csvService     ResultWriter
	xlsxService    WorkbookWriter
	archiveService ArchiveWriter
	exportService  ExportRecorder
	logService     LogWriter
	windowDays     int
	exportXlsx     bool
	now            func() time.Time
}

func NewPipelineService(
	docketService DocketProvider,
	commentSource CommentSource,
	dataService CommentStorer,
	csvService ResultWriter,
	xlsxService WorkbookWriter,
	archiveService ArchiveWriter,
	exportService ExportRecorder,
	logService LogWriter,
	windowDays int,
	exportXlsx bool,
) (*PipelineService, error) {
	if docketService == nil {
		return nil, errors.New("docket service is nil")
	}
	if commentSource == nil {
		return nil, errors.New("comment source is nil")
	}
	if dataService == nil {
		return nil, errors.New("data service is nil")
	}
	if csvService == nil {
		return nil, errors.New("csv service is nil")
	}
	if xlsxService == nil {
		return nil, errors.New("xlsx service is nil")
	}
	if archiveService == nil {
		return nil, errors.New("archive service is nil")
	}
	if exportService == nil {
		return nil, errors.New("export service is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}
	if windowDays <= 0 {
		return nil, errors.New("window days must be positive")
	}

	return &PipelineService{
		docketService:  docketService,
		commentSource:  commentSource,
		dataService:    dataService,
		csvService:     csvService,
		xlsxService:    xlsxService,
		archiveService: archiveService,
		exportService:  exportService,
		logService:     logService,
		windowDays:     windowDays,
		exportXlsx:     exportXlsx,
		now:            time.Now,
	}, nil
}

// Run executes one scrape: list comment IDs for every docket, fetch the
// records not stored yet, persist them, and write the dated output
// files. Any fetch failure or an empty listing fails the run before any
// output file is produced; a run whose records are all already stored
// still writes a header-only file.
func (s *PipelineService) Run(ctx context.Context) error {
	if s == nil {
		return errors.New("pipeline service is nil")
	}

	eventID := uuid.NewString()
	eid := &eventID

	startMsg := "pipeline run started"
	if err := s.logService.CreateLog(ctx, eid, LogActionPipelineRun, LogOutcomeSuccess, &startMsg); err != nil {
		return err
	}

	runTime := s.now().UTC()

	comments, payloads, err := s.collect(ctx, runTime, eid)
	if err != nil {
		failMsg := fmt.Sprintf("pipeline run failed: %v", err)
		_ = s.logService.CreateLog(ctx, eid, LogActionPipelineRun, LogOutcomeFail, &failMsg)
		return err
	}

	if len(comments) > 0 {
		if _, err := s.dataService.StoreComments(ctx, comments, eid); err != nil {
			failMsg := fmt.Sprintf("pipeline run failed: %v", err)
			_ = s.logService.CreateLog(ctx, eid, LogActionPipelineRun, LogOutcomeFail, &failMsg)
			return err
		}
	}

	files, err := s.export(ctx, runTime, comments, payloads, eid)
	if err != nil {
		failMsg := fmt.Sprintf("pipeline run failed: %v", err)
		_ = s.logService.CreateLog(ctx, eid, LogActionPipelineRun, LogOutcomeFail, &failMsg)
		return err
	}

	successMsg := fmt.Sprintf("pipeline run finished comments=%d files=%d", len(comments), files)
	_ = s.logService.CreateLog(ctx, eid, LogActionPipelineRun, LogOutcomeSuccess, &successMsg)

	return nil
}

func (s *PipelineService) collect(ctx context.Context, runTime time.Time, eid *string) ([]models.Comment, []RawComment, error) {
	dockets, err := s.docketService.GetDockets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get dockets: %w", err)
	}
	if len(dockets) == 0 {
		return nil, nil, errors.New("no dockets configured")
	}

	var comments []models.Comment
	var payloads []RawComment

	for _, docket := range dockets {
		window := s.windowFor(docket, runTime)

		ids, err := s.commentSource.ListCommentIDs(ctx, docket, window, eid)
		if err != nil {
			return nil, nil, fmt.Errorf("list comments docket=%s: %w", docket.CommentOnID, err)
		}
		if len(ids) == 0 {
			return nil, nil, fmt.Errorf("no comments listed for docket %s", docket.CommentOnID)
		}

		fresh, err := s.dataService.FilterNew(ctx, ids)
		if err != nil {
			return nil, nil, fmt.Errorf("filter new comments docket=%s: %w", docket.CommentOnID, err)
		}

		listedMsg := fmt.Sprintf("docket=%s listed=%d new=%d", docket.CommentOnID, len(ids), len(fresh))
		_ = s.logService.CreateLog(ctx, eid, LogActionCommentList, LogOutcomeSuccess, &listedMsg)

		for _, id := range fresh {
			detail, err := s.commentSource.FetchComment(ctx, id, eid)
			if err != nil {
				return nil, nil, fmt.Errorf("fetch comment %s: %w", id, err)
			}

			plain, err := StripHTML(detail.Comment.CommentText)
			if err != nil {
				return nil, nil, fmt.Errorf("strip comment %s: %w", id, err)
			}
			detail.Comment.PlainText = plain

			comments = append(comments, detail.Comment)
			payloads = append(payloads, RawComment{CommentID: id, Payload: detail.Raw})
		}
	}

	return comments, payloads, nil
}

func (s *PipelineService) export(ctx context.Context, runTime time.Time, comments []models.Comment, payloads []RawComment, eid *string) (int, error) {
	files, err := s.csvService.WriteComments(ctx, runTime, comments, eid)
	if err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	for _, file := range files {
		if err := s.exportService.RecordExport(ctx, file, "csv", eid); err != nil {
			return 0, fmt.Errorf("record csv export: %w", err)
		}
	}
	count := len(files)

	if s.exportXlsx {
		workbook, err := s.xlsxService.WriteWorkbook(ctx, runTime, comments, eid)
		if err != nil {
			return 0, fmt.Errorf("write xlsx: %w", err)
		}
		if err := s.exportService.RecordExport(ctx, workbook, "xlsx", eid); err != nil {
			return 0, fmt.Errorf("record xlsx export: %w", err)
		}
		count++
	}

	if len(payloads) > 0 {
		archive, err := s.archiveService.WriteArchive(ctx, runTime, payloads, eid)
		if err != nil {
			return 0, fmt.Errorf("write archive: %w", err)
		}
		if err := s.exportService.RecordExport(ctx, archive, "archive", eid); err != nil {
			return 0, fmt.Errorf("record archive export: %w", err)
		}
		count++
	}

	return count, nil
}

// windowFor resolves the posted-date filter for a docket: its pinned
// range when configured, otherwise a rolling window ending at the run
// date.
func (s *PipelineService) windowFor(docket models.Docket, runTime time.Time) DateWindow {
	if docket.PostedFrom != nil || docket.PostedTo != nil {
		var window DateWindow
		if docket.PostedFrom != nil {
			window.From = *docket.PostedFrom
		}
		if docket.PostedTo != nil {
			window.To = *docket.PostedTo
		}
		return window
	}

	return DateWindow{
		From: runTime.AddDate(0, 0, -s.windowDays).Format(postedWindowLayout),
		To:   runTime.Format(postedWindowLayout),
	}
}
