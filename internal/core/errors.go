package core

import "errors"

// Sentinel errors returned by the rating core. MapError classifies them
// with errors.Is.
var (
	ErrMissingCategory   = errors.New("missing category")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownItem       = errors.New("unknown item")
	ErrInvalidRating     = errors.New("invalid rating")
	ErrUnrecognizedTable = errors.New("unrecognized table")
	ErrUnknownLayout     = errors.New("unknown layout")
	ErrEmptyFile         = errors.New("empty file")
	ErrInvalidCSV        = errors.New("invalid csv")
	ErrFileExists        = errors.New("file already exists")
	ErrPathNotFound      = errors.New("path not found")
	ErrSessionNotFound   = errors.New("session not found")
)

// Request errors raised by the HTTP layer. They live here so MapError can
// match them by identity.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNoFile         = errors.New("no file provided")
	ErrFileTooLarge   = errors.New("file too large")
	ErrRateLimited    = errors.New("rate limit exceeded")
)
