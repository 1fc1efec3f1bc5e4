package services

import "regscrape/internal/models"

// DateWindow bounds the postedDate listing filter, inclusive on both
// ends. Empty fields leave the corresponding bound off.
type DateWindow struct {
	From string
	To   string
}

// CommentDetail pairs the mapped record with the raw detail payload the
// API returned for it.
type CommentDetail struct {
	Comment models.Comment
	Raw     []byte
}

// RawComment is the archive unit: one comment's untouched API payload.
type RawComment struct {
	CommentID string `msgpack:"comment_id"`
	Payload   []byte `msgpack:"payload"`
}

// ResultFile describes one produced output artifact.
type ResultFile struct {
	Path     string
	Filename string
	Rows     int
	Checksum string
}
