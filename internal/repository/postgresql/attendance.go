package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/database"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, employee_id, date, time_in, time_out, hours_worked, status, notes, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var timeIn, timeOut pgtype.Time
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &timeIn, &timeOut,
		&att.HoursWorked, &att.Status, &att.Notes, &att.CreatedAt, &att.UpdatedAt,
	)
	att.TimeIn = clockFromPG(timeIn)
	att.TimeOut = clockFromPG(timeOut)
	return att, err
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, attendance.DateOf(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// GetOrCreateForUpdate implements attendance.AttendanceRepository.
// The insert is a no-op when a concurrent writer got there first; the
// following SELECT then locks whichever row won.
func (a *attendanceRepository) GetOrCreateForUpdate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)
	day := attendance.DateOf(date)

	insert := `
		INSERT INTO attendances (id, employee_id, date, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, date) DO NOTHING
	`
	if _, err := q.Exec(ctx, insert, uuid.New().String(), employeeID, day, attendance.StatusPresent); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", mapError(err))
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND date = $2 FOR UPDATE`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceConflict
		}
		return attendance.Attendance{}, fmt.Errorf("failed to lock attendance: %w", mapError(err))
	}
	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET time_in = $1, time_out = $2, hours_worked = $3, status = $4, notes = $5, updated_at = NOW()
		WHERE id = $6
	`

	tag, err := q.Exec(ctx, query,
		clockToPG(att.TimeIn), clockToPG(att.TimeOut), att.HoursWorked, att.Status, att.Notes, att.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"employee_id = $1"}
	args := []interface{}{employeeID}
	argIndex := 2

	if filter.StartDate != nil {
		if from, ok := validator.IsValidDate(*filter.StartDate); ok {
			conditions = append(conditions, fmt.Sprintf("date >= $%d", argIndex))
			args = append(args, from)
			argIndex++
		}
	}
	if filter.EndDate != nil {
		if to, ok := validator.IsValidDate(*filter.EndDate); ok {
			conditions = append(conditions, fmt.Sprintf("date <= $%d", argIndex))
			args = append(args, to)
			argIndex++
		}
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM attendances %s
		ORDER BY date DESC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func clockToPG(c *attendance.ClockTime) pgtype.Time {
	if c == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: c.Duration().Microseconds(), Valid: true}
}

func clockFromPG(t pgtype.Time) *attendance.ClockTime {
	if !t.Valid {
		return nil
	}
	c := attendance.ClockTime(t.Microseconds / int64(time.Second/time.Microsecond))
	return &c
}
