package report

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange  = errors.New("invalid report range")
	ErrInvalidMonth  = fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidRange)
	ErrInvalidYear   = fmt.Errorf("%w: year out of range", ErrInvalidRange)
	ErrUnknownReport = errors.New("unknown report")
	ErrUnknownFormat = errors.New("unknown report format")
	ErrRendering     = errors.New("report rendering failed")
)
