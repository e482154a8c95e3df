package report

import "errors"

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrReportTitleTaken    = errors.New("a report with this title already exists")
	ErrParameterNotFound   = errors.New("report parameter not found")
	ErrResultNotFound      = errors.New("report result not found")
	ErrInvalidReportType   = errors.New("invalid report type")
	ErrUnsupportedStrategy = errors.New("no aggregation strategy for report type")
)
