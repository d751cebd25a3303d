package cli

import "errors"

// Error variables for fixgen.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrKindRequired       = errors.New("value kind is required")
	ErrBadBounds          = errors.New("bounds must be two integers: MIN MAX")
	ErrBadCount           = errors.New("count must be positive")
	ErrBadEncoding        = errors.New("encoding must be hex or base64")
	ErrBadMaxLen          = errors.New("invalid max-len")
	ErrEmptyCharset       = errors.New("charset cannot be empty")
	ErrInterrupted        = errors.New("interrupted")
)
