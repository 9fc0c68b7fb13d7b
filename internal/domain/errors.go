package domain

import "errors"

var (
	ErrNotFound         = errors.New("document not found")
	ErrInvalidDraft     = errors.New("draft failed validation")
	ErrRenderFailed     = errors.New("pdf rendering failed")
	ErrUploadFailed     = errors.New("pdf upload to storage failed")
	ErrLedgerWrite      = errors.New("ledger write failed after upload")
	ErrSequenceConflict = errors.New("sequence number already taken")
)
