package services

const (
	LogActionPipelineRun   = "PIPELINE_RUN"
	LogActionCommentList   = "COMMENT_LIST"
	LogActionCommentDetail = "COMMENT_DETAIL"
	LogActionDataStore     = "DATA_STORE"
	LogActionCsvExport     = "CSV_EXPORT"
	LogActionXlsxExport    = "XLSX_EXPORT"
	LogActionArchiveWrite  = "ARCHIVE_WRITE"
	LogOutcomeSuccess      = "SUCCESS"
	LogOutcomeFail         = "FAIL"
)
