package backend

import "errors"

var (
	ErrUnknownGame        = errors.New("unknown game")
	ErrISONotFound        = errors.New("iso not found")
	ErrInsufficientSpace  = errors.New("insufficient disk space")
	ErrInstallInProgress  = errors.New("install already in progress")
	ErrExtractorFailed    = errors.New("extractor failed")
	ErrInvalidImageKind   = errors.New("invalid image kind")
	ErrVersionFileInvalid = errors.New("version.json is invalid")
)
