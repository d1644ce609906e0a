package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/database"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/metrics"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
)

const workflowName = "attendance_correction"

type AttendanceServiceImpl struct {
	txManager database.Transactor
	policy    *user.Policy
	attendance.AttendanceRepository
	attendance.CorrectionRepository
	employee.EmployeeRepository
	notifier notification.Notifier
	metrics  *metrics.Metrics
	baseURL  string
	now      func() time.Time
}

func NewAttendanceService(
	txManager database.Transactor,
	policy *user.Policy,
	attendanceRepository attendance.AttendanceRepository,
	correctionRepository attendance.CorrectionRepository,
	employeeRepository employee.EmployeeRepository,
	notifier notification.Notifier,
	m *metrics.Metrics,
	baseURL string,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		txManager:            txManager,
		policy:               policy,
		AttendanceRepository: attendanceRepository,
		CorrectionRepository: correctionRepository,
		EmployeeRepository:   employeeRepository,
		notifier:             notifier,
		metrics:              m,
		baseURL:              baseURL,
		now:                  time.Now,
	}
}

// SubmitCorrection implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SubmitCorrection(ctx context.Context, principal user.Principal, req attendance.SubmitCorrectionRequest) (attendance.CorrectionResponse, error) {
	if err := a.policy.Require(principal, user.ActionAttendanceCreateCorrection); err != nil {
		return attendance.CorrectionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.CorrectionResponse{}, err
	}

	if _, err := a.EmployeeRepository.GetByID(ctx, principal.EmployeeID); err != nil {
		return attendance.CorrectionResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	correction, err := req.ToCorrection(principal.EmployeeID)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	// Snapshot whatever the ledger currently says for that day.
	current, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, principal.EmployeeID, correction.Date)
	if err != nil {
		return attendance.CorrectionResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	correction.Snapshot(current)

	created, err := a.CorrectionRepository.Create(ctx, correction)
	if err != nil {
		return attendance.CorrectionResponse{}, fmt.Errorf("failed to create attendance correction: %w", err)
	}

	slog.Info("Attendance correction submitted",
		"correction_id", created.ID,
		"employee_id", created.EmployeeID,
		"date", created.Date.Format(validator.DateLayout),
		"has_attendance", current != nil,
	)
	a.metrics.Transition(workflowName, string(attendance.CorrectionStatusPending), metrics.OutcomeSuccess)

	return attendance.NewCorrectionResponse(created), nil
}

// ApproveCorrection implements attendance.AttendanceService. The transition,
// the ledger write and the link back to the ledger row commit together.
func (a *AttendanceServiceImpl) ApproveCorrection(ctx context.Context, principal user.Principal, correctionID string, req attendance.ReviewCorrectionRequest) (attendance.CorrectionResponse, error) {
	if err := a.policy.Require(principal, user.ActionAttendanceApprove); err != nil {
		return attendance.CorrectionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.CorrectionResponse{}, err
	}

	review := attendance.Review{
		ReviewerID: principal.EmployeeID,
		ReviewedAt: a.now().UTC(),
		Notes:      req.Notes,
	}

	var approved attendance.Correction
	err := a.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := a.ensureNotOwnCorrection(ctx, principal, correctionID); err != nil {
			return err
		}

		updated, err := a.CorrectionRepository.TransitionStatus(ctx, correctionID, attendance.CorrectionStatusApproved, review)
		if err != nil {
			return err
		}

		att, err := a.AttendanceRepository.GetOrCreateForUpdate(ctx, updated.EmployeeID, updated.Date)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}

		updated.ApplyTo(&att)
		if err := a.AttendanceRepository.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		if err := a.CorrectionRepository.LinkAttendance(ctx, updated.ID, att.ID); err != nil {
			return fmt.Errorf("failed to link attendance: %w", err)
		}
		attendanceID := att.ID
		updated.AttendanceID = &attendanceID

		approved = updated
		return nil
	})
	if err != nil {
		a.metrics.Transition(workflowName, string(attendance.CorrectionStatusApproved), outcomeOf(err))
		return attendance.CorrectionResponse{}, err
	}

	slog.Info("Attendance correction approved",
		"correction_id", approved.ID,
		"employee_id", approved.EmployeeID,
		"reviewer_id", principal.EmployeeID,
		"attendance_id", *approved.AttendanceID,
	)
	a.metrics.Transition(workflowName, string(attendance.CorrectionStatusApproved), metrics.OutcomeSuccess)

	a.notify(ctx, approved, notification.TypeCorrectionApproved)
	return attendance.NewCorrectionResponse(approved), nil
}

// RejectCorrection implements attendance.AttendanceService. The ledger is untouched.
func (a *AttendanceServiceImpl) RejectCorrection(ctx context.Context, principal user.Principal, correctionID string, req attendance.ReviewCorrectionRequest) (attendance.CorrectionResponse, error) {
	if err := a.policy.Require(principal, user.ActionAttendanceApprove); err != nil {
		return attendance.CorrectionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.CorrectionResponse{}, err
	}

	if err := a.ensureNotOwnCorrection(ctx, principal, correctionID); err != nil {
		a.metrics.Transition(workflowName, string(attendance.CorrectionStatusRejected), outcomeOf(err))
		return attendance.CorrectionResponse{}, err
	}

	rejected, err := a.CorrectionRepository.TransitionStatus(ctx, correctionID, attendance.CorrectionStatusRejected, attendance.Review{
		ReviewerID: principal.EmployeeID,
		ReviewedAt: a.now().UTC(),
		Notes:      req.Notes,
	})
	if err != nil {
		a.metrics.Transition(workflowName, string(attendance.CorrectionStatusRejected), outcomeOf(err))
		return attendance.CorrectionResponse{}, err
	}

	slog.Info("Attendance correction rejected",
		"correction_id", rejected.ID,
		"employee_id", rejected.EmployeeID,
		"reviewer_id", principal.EmployeeID,
	)
	a.metrics.Transition(workflowName, string(attendance.CorrectionStatusRejected), metrics.OutcomeSuccess)

	a.notify(ctx, rejected, notification.TypeCorrectionRejected)
	return attendance.NewCorrectionResponse(rejected), nil
}

func (a *AttendanceServiceImpl) ensureNotOwnCorrection(ctx context.Context, principal user.Principal, correctionID string) error {
	correction, err := a.CorrectionRepository.GetByID(ctx, correctionID)
	if err != nil {
		return err
	}
	if correction.EmployeeID == principal.EmployeeID {
		return attendance.ErrSelfReview
	}
	return nil
}

// GetCorrection implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetCorrection(ctx context.Context, principal user.Principal, correctionID string) (attendance.CorrectionResponse, error) {
	correction, err := a.CorrectionRepository.GetByID(ctx, correctionID)
	if err != nil {
		return attendance.CorrectionResponse{}, err
	}

	if correction.EmployeeID == principal.EmployeeID {
		if err := a.policy.Require(principal, user.ActionAttendanceViewOwn); err != nil {
			return attendance.CorrectionResponse{}, err
		}
	} else if err := a.policy.Require(principal, user.ActionAttendanceViewAll); err != nil {
		return attendance.CorrectionResponse{}, attendance.ErrNotCorrectionOwner
	}

	return attendance.NewCorrectionResponse(correction), nil
}

// ListMyCorrections implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMyCorrections(ctx context.Context, principal user.Principal, filter attendance.CorrectionFilter) (attendance.ListCorrectionResponse, error) {
	if err := a.policy.Require(principal, user.ActionAttendanceViewOwn); err != nil {
		return attendance.ListCorrectionResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListCorrectionResponse{}, err
	}

	employeeID := principal.EmployeeID
	filter.EmployeeID = &employeeID

	return a.listCorrections(ctx, filter)
}

// ListCorrectionsForReview implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListCorrectionsForReview(ctx context.Context, principal user.Principal, filter attendance.CorrectionFilter) (attendance.ListCorrectionResponse, error) {
	if err := a.policy.Require(principal, user.ActionAttendanceViewAll); err != nil {
		return attendance.ListCorrectionResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListCorrectionResponse{}, err
	}
	filter.EmployeeID = nil

	return a.listCorrections(ctx, filter)
}

func (a *AttendanceServiceImpl) listCorrections(ctx context.Context, filter attendance.CorrectionFilter) (attendance.ListCorrectionResponse, error) {
	corrections, total, err := a.CorrectionRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListCorrectionResponse{}, fmt.Errorf("failed to list attendance corrections: %w", err)
	}
	return attendance.NewListCorrectionResponse(corrections, total, filter), nil
}

// PendingCount implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PendingCount(ctx context.Context, principal user.Principal) (int64, error) {
	if err := a.policy.Require(principal, user.ActionAttendanceViewAll); err != nil {
		return 0, err
	}
	return a.CorrectionRepository.CountByStatus(ctx, attendance.CorrectionStatusPending)
}

// ListMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMyAttendance(ctx context.Context, principal user.Principal, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := a.policy.Require(principal, user.ActionAttendanceViewOwn); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.ListByEmployee(ctx, principal.EmployeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.NewListAttendanceResponse(records, total, filter), nil
}

// notify runs after commit. Failures are logged by the notifier.
func (a *AttendanceServiceImpl) notify(ctx context.Context, c attendance.Correction, typ notification.NotificationType) {
	if a.notifier == nil {
		return
	}

	date := c.Date.Format(validator.DateLayout)
	event := notification.Event{
		RecipientID: c.EmployeeID,
		Type:        typ,
		Link:        fmt.Sprintf("%s/attendance/corrections/%s", a.baseURL, c.ID),
		Data: map[string]interface{}{
			"correction_id": c.ID,
			"date":          date,
			"notes":         c.ReviewerNotes,
		},
	}
	switch typ {
	case notification.TypeCorrectionApproved:
		event.Title = "Attendance correction approved"
		event.Message = fmt.Sprintf("Your attendance correction for %s has been approved.", date)
	case notification.TypeCorrectionRejected:
		event.Title = "Attendance correction rejected"
		event.Message = fmt.Sprintf("Your attendance correction for %s has been rejected.", date)
	}

	if emp, err := a.EmployeeRepository.GetByID(ctx, c.EmployeeID); err != nil {
		slog.Warn("Notification recipient lookup failed", "employee_id", c.EmployeeID, "error", err)
	} else {
		event.RecipientEmail = emp.Email
		event.RecipientName = emp.FullName()
	}

	a.notifier.Notify(ctx, event)
}

func outcomeOf(err error) string {
	if errors.Is(err, attendance.ErrCorrectionAlreadyProcessed) || errors.Is(err, attendance.ErrSelfReview) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeError
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
