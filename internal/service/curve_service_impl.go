package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/planline/internal/app"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/evm"
	"github.com/alexanderramin/planline/internal/repository"
)

type curveService struct {
	projects repository.ProjectRepo
	costs    repository.TaskCostRepo
	claims   repository.ClaimRepo
	opts     options
}

func NewCurveService(
	projects repository.ProjectRepo,
	costs repository.TaskCostRepo,
	claims repository.ClaimRepo,
	opts ...Option,
) CurveService {
	return &curveService{projects: projects, costs: costs, claims: claims, opts: newOptions(opts)}
}

// Compute builds the weekly PV/EV curve of a project. It reads without
// taking the project lock; a concurrent edit shows up in the next computation.
func (s *curveService) Compute(ctx context.Context, req app.CurveRequest) (resp *app.CurveResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": req.ProjectID}
	defer s.opts.observe(ctx, "compute-curve", startedAt, fields, &err)

	if req.ProjectID == "" {
		return nil, &app.CurveError{
			Code:    app.CurveErrMissingProject,
			Message: "project id is required",
			Err:     &domain.ValidationError{Field: "project", Message: "project id is required"},
		}
	}
	if _, err = s.projects.GetByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = &domain.NotFoundError{Entity: "project", ID: req.ProjectID}
		}
		return nil, err
	}

	costs, err := s.costs.ListByProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	claims, err := s.claims.ListByProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	tasks := toPlannedTasks(costs)
	earned := toClaims(claims)

	start, end, err := resolveRange(req, tasks, earned)
	if err != nil {
		return nil, err
	}
	resp = &app.CurveResponse{ProjectID: req.ProjectID, RangeStart: start, RangeEnd: end}
	if start.IsZero() {
		resp.Metrics = evm.Calculate(nil, 0)
		resp.Warnings = append(resp.Warnings, "project has no task costs or progress claims")
		return resp, nil
	}

	maxWeeks := s.opts.maxWeeks
	if req.MaxWeeks > 0 && req.MaxWeeks < maxWeeks {
		maxWeeks = req.MaxWeeks
	}

	curve := evm.Compute(evm.CurveInput{
		RangeStart: start,
		RangeEnd:   end,
		MaxWeeks:   maxWeeks,
		Tasks:      tasks,
		Claims:     earned,
	})
	resp.Weeks = curve.Weeks
	resp.Metrics = curve.Metrics
	resp.SkippedTasks = curve.Skipped

	if curve.Warning != nil {
		s.opts.logger.WarnContext(ctx, "curve range truncated",
			"project_id", req.ProjectID,
			"requested_weeks", curve.Warning.RequestedWeeks,
			"returned_weeks", curve.Warning.ReturnedWeeks)
		resp.Warnings = append(resp.Warnings, curve.Warning.String())
	}
	if len(curve.Skipped) > 0 {
		s.opts.logger.DebugContext(ctx, "tasks contributed no planned value",
			"project_id", req.ProjectID, "count", len(curve.Skipped))
	}

	fields["weeks"] = len(resp.Weeks)
	fields["bac"] = resp.Metrics.BAC
	return resp, nil
}

// resolveRange fills missing bounds from the data span. A zero start means
// there is nothing to plot.
func resolveRange(req app.CurveRequest, tasks []evm.PlannedTask, claims []evm.Claim) (time.Time, time.Time, error) {
	var start, end time.Time
	if req.RangeStart == nil || req.RangeEnd == nil {
		s, e, ok := evm.SpanOf(tasks, claims)
		if !ok && req.RangeStart == nil && req.RangeEnd == nil {
			return time.Time{}, time.Time{}, nil
		}
		start, end = s, e
	}
	if req.RangeStart != nil {
		start = *req.RangeStart
	}
	if req.RangeEnd != nil {
		end = *req.RangeEnd
	}
	if start.IsZero() {
		start = end
	}
	if end.IsZero() {
		end = start
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, &app.CurveError{
			Code:    app.CurveErrInvalidRange,
			Message: "range end " + end.Format("2006-01-02") + " is before range start " + start.Format("2006-01-02"),
			Err:     &domain.ValidationError{Field: "range", Message: "end before start"},
		}
	}
	return start, end, nil
}

func toPlannedTasks(costs []domain.TaskCost) []evm.PlannedTask {
	out := make([]evm.PlannedTask, 0, len(costs))
	for _, c := range costs {
		out = append(out, evm.PlannedTask{TaskID: c.TaskID, Start: c.Start, Finish: c.Finish, Cost: c.Cost})
	}
	return out
}

func toClaims(claims []domain.ProgressClaim) []evm.Claim {
	out := make([]evm.Claim, 0, len(claims))
	for _, c := range claims {
		out = append(out, evm.Claim{PeriodEnd: c.PeriodEnd, Amount: c.Amount})
	}
	return out
}
