package report

import "errors"

var (
	ErrExportFailed = errors.New("failed to write export")
)
