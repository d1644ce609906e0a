package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/database"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type correctionRepository struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) attendance.CorrectionRepository {
	return &correctionRepository{db: db}
}

const correctionColumns = `
	c.id, c.employee_id, c.date, c.attendance_id,
	c.current_time_in, c.current_time_out, c.current_status,
	c.requested_time_in, c.requested_time_out, c.requested_status,
	c.reason, c.status, c.reviewed_by, c.reviewed_at, c.reviewer_notes,
	c.created_at, c.updated_at`

func scanCorrection(row pgx.Row, extra ...any) (attendance.Correction, error) {
	var c attendance.Correction
	var curIn, curOut, reqIn, reqOut pgtype.Time
	dest := []any{
		&c.ID, &c.EmployeeID, &c.Date, &c.AttendanceID,
		&curIn, &curOut, &c.CurrentStatus,
		&reqIn, &reqOut, &c.RequestedStatus,
		&c.Reason, &c.Status, &c.ReviewedBy, &c.ReviewedAt, &c.ReviewerNotes,
		&c.CreatedAt, &c.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return attendance.Correction{}, err
	}
	c.CurrentTimeIn = clockFromPG(curIn)
	c.CurrentTimeOut = clockFromPG(curOut)
	c.RequestedTimeIn = clockFromPG(reqIn)
	c.RequestedTimeOut = clockFromPG(reqOut)
	return c, nil
}

// Create implements attendance.CorrectionRepository.
func (r *correctionRepository) Create(ctx context.Context, correction attendance.Correction) (attendance.Correction, error) {
	q := GetQuerier(ctx, r.db)

	if correction.ID == "" {
		correction.ID = uuid.New().String()
	}

	query := `
		INSERT INTO attendance_corrections AS c (
			id, employee_id, date, attendance_id,
			current_time_in, current_time_out, current_status,
			requested_time_in, requested_time_out, requested_status,
			reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + correctionColumns

	created, err := scanCorrection(q.QueryRow(ctx, query,
		correction.ID, correction.EmployeeID, attendance.DateOf(correction.Date), correction.AttendanceID,
		clockToPG(correction.CurrentTimeIn), clockToPG(correction.CurrentTimeOut), correction.CurrentStatus,
		clockToPG(correction.RequestedTimeIn), clockToPG(correction.RequestedTimeOut), correction.RequestedStatus,
		correction.Reason, correction.Status,
	))
	if err != nil {
		return attendance.Correction{}, fmt.Errorf("failed to create attendance correction: %w", mapError(err))
	}
	return created, nil
}

// GetByID implements attendance.CorrectionRepository.
func (r *correctionRepository) GetByID(ctx context.Context, id string) (attendance.Correction, error) {
	if !isValidID(id) {
		return attendance.Correction{}, attendance.ErrCorrectionNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `, TRIM(e.first_name || ' ' || e.last_name)
		FROM attendance_corrections c
		JOIN employees e ON c.employee_id = e.id
		WHERE c.id = $1`

	var employeeName string
	c, err := scanCorrection(q.QueryRow(ctx, query, id), &employeeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Correction{}, attendance.ErrCorrectionNotFound
		}
		return attendance.Correction{}, fmt.Errorf("failed to get attendance correction: %w", err)
	}
	c.EmployeeName = &employeeName
	return c, nil
}

// List implements attendance.CorrectionRepository.
func (r *correctionRepository) List(ctx context.Context, filter attendance.CorrectionFilter) ([]attendance.Correction, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("c.employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.StartDate != nil {
		if from, ok := validator.IsValidDate(*filter.StartDate); ok {
			conditions = append(conditions, fmt.Sprintf("c.date >= $%d", argIndex))
			args = append(args, from)
			argIndex++
		}
	}
	if filter.EndDate != nil {
		if to, ok := validator.IsValidDate(*filter.EndDate); ok {
			conditions = append(conditions, fmt.Sprintf("c.date <= $%d", argIndex))
			args = append(args, to)
			argIndex++
		}
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_corrections c `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance corrections: %w", err)
	}

	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s, TRIM(e.first_name || ' ' || e.last_name)
		FROM attendance_corrections c
		JOIN employees e ON c.employee_id = e.id
		%s
		ORDER BY c.created_at %s, c.id
		LIMIT $%d OFFSET $%d
	`, correctionColumns, whereClause, order, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance corrections: %w", err)
	}
	defer rows.Close()

	var corrections []attendance.Correction
	for rows.Next() {
		var employeeName string
		c, err := scanCorrection(rows, &employeeName)
		if err != nil {
			return nil, 0, err
		}
		c.EmployeeName = &employeeName
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return corrections, total, nil
}

// TransitionStatus implements attendance.CorrectionRepository.
func (r *correctionRepository) TransitionStatus(ctx context.Context, id string, to attendance.CorrectionStatus, review attendance.Review) (attendance.Correction, error) {
	if !isValidID(id) {
		return attendance.Correction{}, attendance.ErrCorrectionNotFound
	}
	q := GetQuerier(ctx, r.db)

	reviewer, reviewedAt := reviewArgs(review.ReviewerID, review.ReviewedAt)

	query := `
		UPDATE attendance_corrections AS c
		SET status = $1, reviewed_by = $2, reviewed_at = $3, reviewer_notes = $4, updated_at = NOW()
		WHERE c.id = $5 AND c.status = $6
		RETURNING ` + correctionColumns

	updated, err := scanCorrection(q.QueryRow(ctx, query,
		to, reviewer, reviewedAt, review.Notes, id, attendance.CorrectionStatusPending,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Correction{}, fmt.Errorf("failed to update attendance correction status: %w", mapError(err))
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendance_corrections WHERE id = $1)`, id).Scan(&exists); err != nil {
		return attendance.Correction{}, fmt.Errorf("failed to check attendance correction: %w", err)
	}
	if !exists {
		return attendance.Correction{}, attendance.ErrCorrectionNotFound
	}
	return attendance.Correction{}, attendance.ErrCorrectionAlreadyProcessed
}

// LinkAttendance implements attendance.CorrectionRepository.
func (r *correctionRepository) LinkAttendance(ctx context.Context, id, attendanceID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE attendance_corrections SET attendance_id = $1, updated_at = NOW() WHERE id = $2`,
		attendanceID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to link attendance correction: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrCorrectionNotFound
	}
	return nil
}

// CountByStatus implements attendance.CorrectionRepository.
func (r *correctionRepository) CountByStatus(ctx context.Context, status attendance.CorrectionStatus) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_corrections WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance corrections: %w", err)
	}
	return count, nil
}
