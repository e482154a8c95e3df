package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/report"
	reportengine "github.com/chartwell-health/chartwell/internal/report"
	"github.com/chartwell-health/chartwell/pkg/metrics"
)

type ReportService struct {
	repo      report.Repository
	engine    *reportengine.Engine
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewReportService(repo report.Repository, engine *reportengine.Engine, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *ReportService {
	return &ReportService{repo: repo, engine: engine, auditSvc: auditSvc, collector: collector, log: log}
}

func (s *ReportService) CreateReport(ctx context.Context, actor access.Actor, cmd *report.CreateReportCommand, ip string) (*report.Report, error) {
	if err := actor.Require(access.Admin); err != nil {
		return nil, err
	}

	var errs []string
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		errs = append(errs, "title is required")
	}
	if !cmd.Type.IsValid() {
		errs = append(errs, "report_type is invalid")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if _, err := s.repo.GetReportByTitle(ctx, title); err == nil {
		return nil, report.ErrReportTitleTaken
	} else if !errors.Is(err, report.ErrReportNotFound) {
		return nil, fmt.Errorf("checking title uniqueness: %w", err)
	}

	r := &report.Report{
		Title:       title,
		Type:        cmd.Type,
		Description: cmd.Description,
		CreatedBy:   actor.UserID,
	}
	if err := s.repo.CreateReport(ctx, r); err != nil {
		s.log.Error("failed to create report", zap.Error(err))
		return nil, fmt.Errorf("creating report: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "report", r.ID, ip)
	return r, nil
}

func (s *ReportService) GetReport(ctx context.Context, actor access.Actor, id uuid.UUID) (*report.Report, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetReportByID(ctx, id)
}

func (s *ReportService) UpdateReport(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *report.UpdateReportCommand, ip string) (*report.Report, error) {
	if err := actor.Require(access.Admin); err != nil {
		return nil, err
	}

	r, err := s.repo.GetReportByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return nil, &ValidationError{Fields: []string{"title cannot be empty"}}
		}
		if title != r.Title {
			if _, err := s.repo.GetReportByTitle(ctx, title); err == nil {
				return nil, report.ErrReportTitleTaken
			} else if !errors.Is(err, report.ErrReportNotFound) {
				return nil, fmt.Errorf("checking title uniqueness: %w", err)
			}
		}
		r.Title = title
	}
	if cmd.Description != nil {
		r.Description = *cmd.Description
	}

	if err := s.repo.UpdateReport(ctx, r); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "report", id, ip)
	return r, nil
}

// DeleteReport removes the template and, by FK cascade, its parameters and
// every stored result snapshot.
func (s *ReportService) DeleteReport(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Admin); err != nil {
		return err
	}
	if err := s.repo.DeleteReport(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "report", id, ip)
	return nil
}

func (s *ReportService) ListReports(ctx context.Context, actor access.Actor, q report.ListReportsQuery) (*report.PagedReports, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.ListReports(ctx, q)
}

func (s *ReportService) AddParameter(ctx context.Context, actor access.Actor, reportID uuid.UUID, p *report.Parameter, ip string) (*report.Parameter, error) {
	if err := actor.Require(access.Admin); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(p.DataType) == "" {
		errs = append(errs, "data_type is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if _, err := s.repo.GetReportByID(ctx, reportID); err != nil {
		return nil, err
	}

	p.ReportID = reportID
	if err := s.repo.CreateParameter(ctx, p); err != nil {
		return nil, fmt.Errorf("creating report parameter: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "report_parameter", p.ID, ip)
	return p, nil
}

func (s *ReportService) DeleteParameter(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Admin); err != nil {
		return err
	}
	if err := s.repo.DeleteParameter(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "report_parameter", id, ip)
	return nil
}

func (s *ReportService) ListParameters(ctx context.Context, actor access.Actor, reportID uuid.UUID) ([]*report.Parameter, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetReportByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.repo.ListParameters(ctx, reportID)
}

// Generate runs the report's aggregation strategy with the supplied
// parameters, fills in declared defaults for missing ones, and stores the
// outcome as an immutable snapshot. Recognised-but-unsupported types still
// produce a stored snapshot whose payload carries the error.
func (s *ReportService) Generate(ctx context.Context, actor access.Actor, reportID uuid.UUID, params report.Params, ip string) (*report.Result, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	r, err := s.repo.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if params == nil {
		params = report.Params{}
	}
	declared, err := s.repo.ListParameters(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("loading parameters: %w", err)
	}
	for _, d := range declared {
		if _, ok := params[d.Name]; !ok && d.DefaultValue != "" {
			params[d.Name] = d.DefaultValue
		}
	}

	payload, err := s.engine.Generate(ctx, r.Type, params)
	if err != nil {
		if errors.Is(err, reportengine.ErrInvalidParameter) {
			return nil, &ValidationError{Fields: []string{err.Error()}}
		}
		s.log.Error("report generation failed",
			zap.String("report_id", reportID.String()),
			zap.String("report_type", string(r.Type)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("generating report: %w", err)
	}

	res := &report.Result{
		ReportID:    r.ID,
		Parameters:  params,
		ResultData:  payload,
		GeneratedBy: actor.UserID,
	}
	if err := s.repo.CreateResult(ctx, res); err != nil {
		return nil, fmt.Errorf("storing report result: %w", err)
	}

	if s.collector != nil {
		s.collector.ReportsGeneratedTotal.WithLabelValues(string(r.Type)).Inc()
	}
	s.audit(ctx, actor, domain.ActionCreate, "report_result", res.ID, ip)

	s.log.Info("report generated",
		zap.String("report_id", r.ID.String()),
		zap.String("report_type", string(r.Type)),
		zap.String("result_id", res.ID.String()),
	)

	return res, nil
}

func (s *ReportService) GetResult(ctx context.Context, actor access.Actor, id uuid.UUID) (*report.Result, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetResultByID(ctx, id)
}

func (s *ReportService) ListResults(ctx context.Context, actor access.Actor, reportID uuid.UUID) ([]*report.Result, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetReportByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.repo.ListResults(ctx, reportID)
}

func (s *ReportService) audit(ctx context.Context, actor access.Actor, action domain.AuditAction, resource string, id uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(action),
		ResourceType: resource,
		ResourceID:   id.String(),
		IPAddress:    ip,
	})
}
