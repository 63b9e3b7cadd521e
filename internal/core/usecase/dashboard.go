package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kittipatc/opsdesk/internal/core/domain"
	"github.com/kittipatc/opsdesk/internal/core/ports"
)

// DashboardUseCase backs the operations board: alerts raised by
// monitoring, escalated cases and the shared activity feed.
type DashboardUseCase struct {
	alerts ports.AlertRepository
	cases  ports.CaseRepository
	feed   ports.FeedRepository
}

func NewDashboardUseCase(
	alerts ports.AlertRepository,
	cases ports.CaseRepository,
	feed ports.FeedRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		alerts: alerts,
		cases:  cases,
		feed:   feed,
	}
}

func (uc *DashboardUseCase) RaiseAlert(ctx context.Context, alert domain.Alert) (*domain.Alert, error) {
	if strings.TrimSpace(alert.Title) == "" {
		return nil, fmt.Errorf("alert title is required: %w", domain.ErrInvalidInput)
	}
	switch alert.Severity {
	case domain.SeverityInfo, domain.SeverityWarning, domain.SeverityCritical:
	case "":
		alert.Severity = domain.SeverityInfo
	default:
		return nil, fmt.Errorf("unknown severity %q: %w", alert.Severity, domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	alert.ID = uuid.NewString()
	alert.Status = domain.AlertStatusOpen
	alert.CreatedAt = now
	alert.UpdatedAt = now

	if err := uc.alerts.Create(ctx, &alert); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	uc.announce(ctx, domain.FeedItem{
		Kind:  "alert_raised",
		Title: fmt.Sprintf("Alert raised: %s", alert.Title),
		Body:  alert.Detail,
		RefID: alert.ID,
	})
	return &alert, nil
}

func (uc *DashboardUseCase) GetAlert(ctx context.Context, id string) (*domain.Alert, error) {
	return uc.alerts.GetByID(ctx, id)
}

func (uc *DashboardUseCase) ListAlerts(ctx context.Context, status domain.AlertStatus, limit int) ([]domain.Alert, error) {
	if status != "" && !validAlertStatus(status) {
		return nil, fmt.Errorf("unknown alert status %q: %w", status, domain.ErrInvalidInput)
	}
	return uc.alerts.List(ctx, status, limit)
}

func (uc *DashboardUseCase) UpdateAlertStatus(ctx context.Context, id string, status domain.AlertStatus) error {
	if !validAlertStatus(status) {
		return fmt.Errorf("unknown alert status %q: %w", status, domain.ErrInvalidInput)
	}
	return uc.alerts.UpdateStatus(ctx, id, status)
}

// CaseUpdate is a partial update; nil fields keep the stored value.
type CaseUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Assignee    *string
	Priority    *int
	Status      *domain.CaseStatus
}

func (uc *DashboardUseCase) OpenCase(ctx context.Context, c domain.Case) (*domain.Case, error) {
	if strings.TrimSpace(c.Title) == "" {
		return nil, fmt.Errorf("case title is required: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.Status = domain.CaseStatusOpen
	c.CreatedAt = now
	c.UpdatedAt = now
	c.ClosedAt = nil

	if err := uc.cases.Create(ctx, &c); err != nil {
		return nil, fmt.Errorf("create case: %w", err)
	}

	uc.announce(ctx, domain.FeedItem{
		Kind:  "case_opened",
		Title: fmt.Sprintf("Case opened: %s", c.Title),
		Body:  c.Description,
		RefID: c.ID,
	})
	return &c, nil
}

func (uc *DashboardUseCase) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	return uc.cases.GetByID(ctx, id)
}

func (uc *DashboardUseCase) ListCases(ctx context.Context, status domain.CaseStatus, limit int) ([]domain.Case, error) {
	if status != "" && !validCaseStatus(status) {
		return nil, fmt.Errorf("unknown case status %q: %w", status, domain.ErrInvalidInput)
	}
	return uc.cases.List(ctx, status, limit)
}

func (uc *DashboardUseCase) UpdateCase(ctx context.Context, id string, update CaseUpdate) (*domain.Case, error) {
	existing, err := uc.cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, fmt.Errorf("case title is required: %w", domain.ErrInvalidInput)
		}
		existing.Title = *update.Title
	}
	if update.Description != nil {
		existing.Description = *update.Description
	}
	if update.Category != nil {
		existing.Category = *update.Category
	}
	if update.Assignee != nil {
		existing.Assignee = *update.Assignee
	}
	if update.Priority != nil {
		existing.Priority = *update.Priority
	}
	if update.Status != nil {
		if !validCaseStatus(*update.Status) {
			return nil, fmt.Errorf("unknown case status %q: %w", *update.Status, domain.ErrInvalidInput)
		}
		existing.Status = *update.Status
	}

	now := time.Now().UTC()
	existing.UpdatedAt = now
	if existing.Status == domain.CaseStatusClosed {
		if existing.ClosedAt == nil {
			existing.ClosedAt = &now
		}
	} else {
		existing.ClosedAt = nil
	}

	if err := uc.cases.Update(ctx, existing); err != nil {
		return nil, err
	}

	if update.Status != nil && *update.Status == domain.CaseStatusClosed {
		uc.announce(ctx, domain.FeedItem{
			Kind:  "case_closed",
			Title: fmt.Sprintf("Case closed: %s", existing.Title),
			RefID: existing.ID,
		})
	}
	return existing, nil
}

func (uc *DashboardUseCase) Feed(ctx context.Context, limit int) ([]domain.FeedItem, error) {
	return uc.feed.ListRecent(ctx, limit)
}

// announce writes to the activity feed best-effort; the feed never
// fails the primary operation.
func (uc *DashboardUseCase) announce(ctx context.Context, item domain.FeedItem) {
	if uc.feed == nil {
		return
	}
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	if err := uc.feed.Append(ctx, &item); err != nil {
		slog.Warn("feed_append_failed", "kind", item.Kind, "ref_id", item.RefID, "error", err)
	}
}

func validAlertStatus(status domain.AlertStatus) bool {
	switch status {
	case domain.AlertStatusOpen, domain.AlertStatusAcknowledged, domain.AlertStatusResolved:
		return true
	default:
		return false
	}
}

func validCaseStatus(status domain.CaseStatus) bool {
	switch status {
	case domain.CaseStatusOpen, domain.CaseStatusInProgress, domain.CaseStatusClosed:
		return true
	default:
		return false
	}
}
