package services

import (
	"context"
	"time"

	"regscrape/internal/models"
)

type DocketProvider interface {
	GetDockets(ctx context.Context) ([]models.Docket, error)
}

type LogWriter interface {
	CreateLog(ctx context.Context, eventID *string, action string, outcome string, message *string) error
}

type CommentSource interface {
	ListCommentIDs(ctx context.Context, docket models.Docket, window DateWindow, eventID *string) ([]string, error)
	FetchComment(ctx context.Context, commentID string, eventID *string) (CommentDetail, error)
}

type CommentStorer interface {
	StoreComments(ctx context.Context, comments []models.Comment, eventID *string) (int, error)
	FilterNew(ctx context.Context, commentIDs []string) ([]string, error)
}

type ResultWriter interface {
	WriteComments(ctx context.Context, runTime time.Time, comments []models.Comment, eventID *string) ([]ResultFile, error)
}

type WorkbookWriter interface {
	WriteWorkbook(ctx context.Context, runTime time.Time, comments []models.Comment, eventID *string) (ResultFile, error)
}

type ArchiveWriter interface {
	WriteArchive(ctx context.Context, runTime time.Time, payloads []RawComment, eventID *string) (ResultFile, error)
}

type ExportRecorder interface {
	RecordExport(ctx context.Context, file ResultFile, format string, eventID *string) error
}
