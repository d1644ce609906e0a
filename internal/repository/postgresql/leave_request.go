package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/database"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.days_requested,
	lr.reason, lr.status, lr.reviewed_by, lr.reviewed_at, lr.manager_notes,
	lr.submitted_at, lr.updated_at`

func scanLeaveRequest(row pgx.Row, extra ...any) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	dest := []any{
		&req.ID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate, &req.DaysRequested,
		&req.Reason, &req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.ManagerNotes,
		&req.SubmittedAt, &req.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return req, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		request.ID = uuid.New().String()
	}

	query := `
		INSERT INTO leave_requests AS lr (
			id, employee_id, leave_type, start_date, end_date, days_requested, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveType, request.StartDate, request.EndDate,
		request.DaysRequested, request.Reason, request.Status,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", mapError(err))
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if !isValidID(id) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, TRIM(e.first_name || ' ' || e.last_name)
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE lr.id = $1`

	var employeeName string
	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id), &employeeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	req.EmployeeName = &employeeName
	return req, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.LeaveType != nil {
		conditions = append(conditions, fmt.Sprintf("lr.leave_type = $%d", argIndex))
		args = append(args, *filter.LeaveType)
		argIndex++
	}

	if filter.StartDate != nil {
		if from, ok := validator.IsValidDate(*filter.StartDate); ok {
			conditions = append(conditions, fmt.Sprintf("lr.end_date >= $%d", argIndex))
			args = append(args, from)
			argIndex++
		}
	}

	if filter.EndDate != nil {
		if to, ok := validator.IsValidDate(*filter.EndDate); ok {
			conditions = append(conditions, fmt.Sprintf("lr.start_date <= $%d", argIndex))
			args = append(args, to)
			argIndex++
		}
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	var total int64
	countQuery := `SELECT COUNT(*) FROM leave_requests lr ` + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s, TRIM(e.first_name || ' ' || e.last_name)
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		%s
		ORDER BY lr.submitted_at %s, lr.id
		LIMIT $%d OFFSET $%d
	`, leaveRequestColumns, whereClause, order, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var employeeName string
		req, err := scanLeaveRequest(rows, &employeeName)
		if err != nil {
			return nil, 0, err
		}
		req.EmployeeName = &employeeName
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// TransitionStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) TransitionStatus(ctx context.Context, id string, to leave.LeaveRequestStatus, review leave.Review) (leave.LeaveRequest, error) {
	if !isValidID(id) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	reviewer, reviewedAt := reviewArgs(review.ReviewerID, review.ReviewedAt)

	query := `
		UPDATE leave_requests AS lr
		SET status = $1, reviewed_by = $2, reviewed_at = $3, manager_notes = $4, updated_at = NOW()
		WHERE lr.id = $5 AND lr.status = $6
		RETURNING ` + leaveRequestColumns

	updated, err := scanLeaveRequest(q.QueryRow(ctx, query,
		to, reviewer, reviewedAt, review.Notes, id, leave.LeaveRequestStatusPending,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request status: %w", mapError(err))
	}

	// Zero rows: either the id is unknown or the request left pending already.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to check leave request: %w", err)
	}
	if !exists {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
}

// ListApprovedCovering implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedCovering(ctx context.Context, day time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, TRIM(e.first_name || ' ' || e.last_name)
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE lr.status = $1 AND lr.start_date <= $2 AND lr.end_date >= $2
		ORDER BY e.first_name, e.last_name`

	rows, err := q.Query(ctx, query, leave.LeaveRequestStatusApproved, leave.DateOf(day))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var employeeName string
		req, err := scanLeaveRequest(rows, &employeeName)
		if err != nil {
			return nil, err
		}
		req.EmployeeName = &employeeName
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// CountByStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) CountByStatus(ctx context.Context, status leave.LeaveRequestStatus) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count leave requests: %w", err)
	}
	return count, nil
}

// reviewArgs maps empty reviewer metadata to NULL.
func reviewArgs(reviewerID string, at time.Time) (*string, *time.Time) {
	var reviewer *string
	if reviewerID != "" {
		reviewer = &reviewerID
	}
	var reviewedAt *time.Time
	if !at.IsZero() {
		reviewedAt = &at
	}
	return reviewer, reviewedAt
}
