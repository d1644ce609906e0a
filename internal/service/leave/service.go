package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/user"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/database"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/metrics"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const workflowName = "leave"

type LeaveServiceImpl struct {
	txManager database.Transactor
	policy    *user.Policy
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	notifier notification.Notifier
	metrics  *metrics.Metrics
	baseURL  string
	now      func() time.Time
}

func NewLeaveService(
	txManager database.Transactor,
	policy *user.Policy,
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	notifier notification.Notifier,
	m *metrics.Metrics,
	baseURL string,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		txManager:              txManager,
		policy:                 policy,
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		notifier:               notifier,
		metrics:                m,
		baseURL:                baseURL,
		now:                    time.Now,
	}
}

// SetClock replaces the time source. Tests only.
func (s *LeaveServiceImpl) SetClock(now func() time.Time) {
	s.now = now
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, principal user.Principal, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := s.policy.Require(principal, user.ActionLeaveCreate); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, principal.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive() {
		return leave.LeaveRequestResponse{}, leave.ErrEmployeeNotActive
	}

	startDate, endDate := req.Dates()
	workingDays := leave.WorkingDays(startDate, endDate)
	if workingDays == 0 {
		return leave.LeaveRequestResponse{}, leave.ErrNoWorkingDays
	}
	days := decimal.NewFromInt(int64(workingDays))

	leaveType := leave.LeaveType(req.LeaveType)
	if kind, tracked := leaveType.BalanceKind(); tracked {
		balance, _ := emp.Balances.Of(kind)
		if days.GreaterThan(balance) {
			return leave.LeaveRequestResponse{}, fmt.Errorf("%w: requested %s days, %s remaining",
				leave.ErrInsufficientBalance, days.String(), balance.StringFixed(2))
		}
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID:    emp.ID,
		LeaveType:     leaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysRequested: days,
		Reason:        strings.TrimSpace(req.Reason),
		Status:        leave.LeaveRequestStatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("Leave request submitted",
		"request_id", created.ID,
		"employee_id", created.EmployeeID,
		"leave_type", created.LeaveType,
		"days", created.DaysRequested.String(),
	)
	s.metrics.Transition(workflowName, string(leave.LeaveRequestStatusPending), metrics.OutcomeSuccess)

	return leave.NewLeaveRequestResponse(created), nil
}

// Approve implements leave.LeaveService. The status transition and the
// balance deduction commit together or not at all.
func (s *LeaveServiceImpl) Approve(ctx context.Context, principal user.Principal, requestID string, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := s.policy.Require(principal, user.ActionLeaveApprove); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	review := leave.Review{
		ReviewerID: principal.EmployeeID,
		ReviewedAt: s.now().UTC(),
		Notes:      req.Notes,
	}

	var approved leave.LeaveRequest
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureNotOwnRequest(ctx, principal, requestID); err != nil {
			return err
		}

		updated, err := s.LeaveRequestRepository.TransitionStatus(ctx, requestID, leave.LeaveRequestStatusApproved, review)
		if err != nil {
			return err
		}

		if kind, tracked := updated.LeaveType.BalanceKind(); tracked {
			if err := s.EmployeeRepository.DeductBalance(ctx, updated.EmployeeID, kind, updated.DaysRequested); err != nil {
				if errors.Is(err, employee.ErrInsufficientBalance) {
					return fmt.Errorf("%w: %s balance cannot cover %s days",
						leave.ErrInsufficientBalance, kind, updated.DaysRequested.String())
				}
				return fmt.Errorf("failed to deduct leave balance: %w", err)
			}
		}

		approved = updated
		return nil
	})
	if err != nil {
		s.metrics.Transition(workflowName, string(leave.LeaveRequestStatusApproved), outcomeOf(err))
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request approved",
		"request_id", approved.ID,
		"employee_id", approved.EmployeeID,
		"reviewer_id", principal.EmployeeID,
		"days", approved.DaysRequested.String(),
	)
	s.metrics.Transition(workflowName, string(leave.LeaveRequestStatusApproved), metrics.OutcomeSuccess)
	if kind, tracked := approved.LeaveType.BalanceKind(); tracked {
		s.metrics.BalanceDeducted(string(kind), approved.DaysRequested.InexactFloat64())
	}

	s.notify(ctx, approved, notification.TypeLeaveApproved)
	return leave.NewLeaveRequestResponse(approved), nil
}

// Reject implements leave.LeaveService. Balances are never touched.
func (s *LeaveServiceImpl) Reject(ctx context.Context, principal user.Principal, requestID string, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := s.policy.Require(principal, user.ActionLeaveApprove); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if err := s.ensureNotOwnRequest(ctx, principal, requestID); err != nil {
		s.metrics.Transition(workflowName, string(leave.LeaveRequestStatusRejected), outcomeOf(err))
		return leave.LeaveRequestResponse{}, err
	}

	rejected, err := s.LeaveRequestRepository.TransitionStatus(ctx, requestID, leave.LeaveRequestStatusRejected, leave.Review{
		ReviewerID: principal.EmployeeID,
		ReviewedAt: s.now().UTC(),
		Notes:      req.Notes,
	})
	if err != nil {
		s.metrics.Transition(workflowName, string(leave.LeaveRequestStatusRejected), outcomeOf(err))
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request rejected",
		"request_id", rejected.ID,
		"employee_id", rejected.EmployeeID,
		"reviewer_id", principal.EmployeeID,
	)
	s.metrics.Transition(workflowName, string(leave.LeaveRequestStatusRejected), metrics.OutcomeSuccess)

	s.notify(ctx, rejected, notification.TypeLeaveRejected)
	return leave.NewLeaveRequestResponse(rejected), nil
}

// Cancel implements leave.LeaveService. Only the owner may cancel, and only
// while the request is pending.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, principal user.Principal, requestID string) (leave.LeaveRequestResponse, error) {
	if err := s.policy.Require(principal, user.ActionLeaveCancel); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.EmployeeID != principal.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}

	cancelled, err := s.LeaveRequestRepository.TransitionStatus(ctx, requestID, leave.LeaveRequestStatusCancelled, leave.Review{
		ReviewedAt: s.now().UTC(),
	})
	if err != nil {
		s.metrics.Transition(workflowName, string(leave.LeaveRequestStatusCancelled), outcomeOf(err))
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request cancelled", "request_id", cancelled.ID, "employee_id", cancelled.EmployeeID)
	s.metrics.Transition(workflowName, string(leave.LeaveRequestStatusCancelled), metrics.OutcomeSuccess)
	return leave.NewLeaveRequestResponse(cancelled), nil
}

// Get implements leave.LeaveService. Owners see their own requests, reviewers see all.
func (s *LeaveServiceImpl) Get(ctx context.Context, principal user.Principal, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if request.EmployeeID == principal.EmployeeID {
		if err := s.policy.Require(principal, user.ActionLeaveViewOwn); err != nil {
			return leave.LeaveRequestResponse{}, err
		}
	} else if err := s.policy.Require(principal, user.ActionLeaveViewAll); err != nil {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}

	return leave.NewLeaveRequestResponse(request), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, principal user.Principal, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := s.policy.Require(principal, user.ActionLeaveViewOwn); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	employeeID := principal.EmployeeID
	filter.EmployeeID = &employeeID

	return s.list(ctx, filter)
}

// ListForReview implements leave.LeaveService.
func (s *LeaveServiceImpl) ListForReview(ctx context.Context, principal user.Principal, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := s.policy.Require(principal, user.ActionLeaveViewAll); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	filter.EmployeeID = nil

	return s.list(ctx, filter)
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	requests, total, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leave.NewListLeaveRequestResponse(requests, total, filter), nil
}

// Balances implements leave.LeaveService.
func (s *LeaveServiceImpl) Balances(ctx context.Context, principal user.Principal) (employee.BalancesResponse, error) {
	if err := s.policy.Require(principal, user.ActionLeaveViewOwn); err != nil {
		return employee.BalancesResponse{}, err
	}
	emp, err := s.EmployeeRepository.GetByID(ctx, principal.EmployeeID)
	if err != nil {
		return employee.BalancesResponse{}, err
	}
	return employee.NewBalancesResponse(emp.Balances), nil
}

// OnLeaveToday implements leave.LeaveService.
func (s *LeaveServiceImpl) OnLeaveToday(ctx context.Context, principal user.Principal) ([]leave.OnLeaveTodayResponse, error) {
	if err := s.policy.Require(principal, user.ActionLeaveViewAll); err != nil {
		return nil, err
	}

	requests, err := s.LeaveRequestRepository.ListApprovedCovering(ctx, leave.DateOf(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}

	out := make([]leave.OnLeaveTodayResponse, 0, len(requests))
	for _, r := range requests {
		name := ""
		if r.EmployeeName != nil {
			name = *r.EmployeeName
		}
		out = append(out, leave.OnLeaveTodayResponse{
			EmployeeID:   r.EmployeeID,
			EmployeeName: name,
			LeaveType:    string(r.LeaveType),
			StartDate:    r.StartDate.Format(validator.DateLayout),
			EndDate:      r.EndDate.Format(validator.DateLayout),
		})
	}
	return out, nil
}

// PendingCount implements leave.LeaveService.
func (s *LeaveServiceImpl) PendingCount(ctx context.Context, principal user.Principal) (int64, error) {
	if err := s.policy.Require(principal, user.ActionLeaveViewAll); err != nil {
		return 0, err
	}
	return s.LeaveRequestRepository.CountByStatus(ctx, leave.LeaveRequestStatusPending)
}

// ensureNotOwnRequest refuses a review by the employee who filed the request.
func (s *LeaveServiceImpl) ensureNotOwnRequest(ctx context.Context, principal user.Principal, requestID string) error {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.EmployeeID == principal.EmployeeID {
		return leave.ErrSelfReview
	}
	return nil
}

// notify runs after commit. Failures are logged by the notifier.
func (s *LeaveServiceImpl) notify(ctx context.Context, r leave.LeaveRequest, typ notification.NotificationType) {
	if s.notifier == nil {
		return
	}

	event := notification.Event{
		RecipientID: r.EmployeeID,
		Type:        typ,
		Link:        fmt.Sprintf("%s/leave/requests/%s", s.baseURL, r.ID),
		Data: map[string]interface{}{
			"request_id":     r.ID,
			"leave_type":     string(r.LeaveType),
			"start_date":     r.StartDate.Format(validator.DateLayout),
			"end_date":       r.EndDate.Format(validator.DateLayout),
			"days_requested": r.DaysRequested.String(),
			"notes":          r.ManagerNotes,
		},
	}

	period := fmt.Sprintf("%s to %s", r.StartDate.Format(validator.DateLayout), r.EndDate.Format(validator.DateLayout))
	switch typ {
	case notification.TypeLeaveApproved:
		event.Title = "Leave request approved"
		event.Message = fmt.Sprintf("Your %s leave for %s has been approved.", r.LeaveType, period)
	case notification.TypeLeaveRejected:
		event.Title = "Leave request rejected"
		event.Message = fmt.Sprintf("Your %s leave for %s has been rejected.", r.LeaveType, period)
	}

	if emp, err := s.EmployeeRepository.GetByID(ctx, r.EmployeeID); err != nil {
		slog.Warn("Notification recipient lookup failed", "employee_id", r.EmployeeID, "error", err)
	} else {
		event.RecipientEmail = emp.Email
		event.RecipientName = emp.FullName()
	}

	s.notifier.Notify(ctx, event)
}

func outcomeOf(err error) string {
	if errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) || errors.Is(err, leave.ErrInsufficientBalance) || errors.Is(err, leave.ErrSelfReview) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeError
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)
