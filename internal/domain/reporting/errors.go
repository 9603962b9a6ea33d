package reporting

import "errors"

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrInvalidSchema       = errors.New("report schema is invalid")
	ErrUnknownColumn       = errors.New("unknown report column")
	ErrUnknownFormatter    = errors.New("formatter is not registered")
	ErrUnknownExpression   = errors.New("filter expression is not registered")
	ErrGenerationInFlight  = errors.New("a report generation is already in flight")
	ErrGenerationCancelled = errors.New("report generation was superseded")
	ErrTargetNotAllowed    = errors.New("column does not allow a target")
)
