package services

import "errors"

var (
	ErrNoActiveSession     = errors.New("no active onboarding session")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrChatNotFound        = errors.New("chat not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)
