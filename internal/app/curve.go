package app

import (
	"time"

	"github.com/alexanderramin/planline/internal/evm"
)

// CurveRequest asks for the weekly PV/EV curve of one project. A nil range
// bound defaults to the span of the project's task costs and claims.
type CurveRequest struct {
	ProjectID  string
	RangeStart *time.Time
	RangeEnd   *time.Time
	MaxWeeks   int
}

func NewCurveRequest(projectID string) CurveRequest {
	return CurveRequest{
		ProjectID: projectID,
		MaxWeeks:  evm.MaxWeeks,
	}
}

type CurveResponse struct {
	ProjectID  string
	RangeStart time.Time
	RangeEnd   time.Time
	Weeks      []evm.WeekBucket
	Metrics    evm.Metrics
	Warnings   []string
	// SkippedTasks lists tasks whose cost could not be spread (bad window or amount).
	SkippedTasks []string
}

// Empty reports whether the project had nothing to plot.
func (r *CurveResponse) Empty() bool {
	return len(r.Weeks) == 0
}

type CurveErrorCode string

const (
	CurveErrMissingProject CurveErrorCode = "MISSING_PROJECT"
	CurveErrInvalidRange   CurveErrorCode = "INVALID_RANGE"
)

type CurveError struct {
	Code    CurveErrorCode
	Message string
	Err     error
}

func (e *CurveError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *CurveError) Unwrap() error { return e.Err }
