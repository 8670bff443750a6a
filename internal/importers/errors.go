package importers

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported source format")
	ErrEmptySource       = errors.New("source is empty")
	ErrMissingColumns    = errors.New("required columns not found")
	ErrSheetNotFound     = errors.New("worksheet not found")
	ErrEmptyCanon        = errors.New("canon is empty, cannot normalize references")
	ErrNoUsableRows      = errors.New("no usable verse rows")

	ErrMissingTranslationCode = errors.New("translation code is required")
)
