package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: store}
}

func attendanceKey(employeeID string, date time.Time) string {
	return employeeID + "|" + attendance.DateOf(date).Format(validator.DateLayout)
}

func (r *attendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	var found *attendance.Attendance
	r.store.read(func(t *tables) {
		if id, ok := t.attendanceKey[attendanceKey(employeeID, date)]; ok {
			att := t.attendances[id]
			found = &att
		}
	})
	return found, nil
}

// GetOrCreateForUpdate relies on the store's write lock instead of row locks.
func (r *attendanceRepository) GetOrCreateForUpdate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := r.store.write(ctx, func(t *tables) error {
		key := attendanceKey(employeeID, date)
		if id, ok := t.attendanceKey[key]; ok {
			att = t.attendances[id]
			return nil
		}
		now := r.store.now()
		att = attendance.Attendance{
			ID:         uuid.New().String(),
			EmployeeID: employeeID,
			Date:       attendance.DateOf(date),
			Status:     attendance.StatusPresent,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		t.attendances[att.ID] = att
		t.attendanceKey[key] = att.ID
		return nil
	})
	return att, err
}

func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	return r.store.write(ctx, func(t *tables) error {
		existing, ok := t.attendances[att.ID]
		if !ok {
			return attendance.ErrAttendanceNotFound
		}
		// Identity columns are not updatable.
		att.EmployeeID = existing.EmployeeID
		att.Date = existing.Date
		att.CreatedAt = existing.CreatedAt
		att.UpdatedAt = r.store.now()
		t.attendances[att.ID] = att
		return nil
	})
}

func (r *attendanceRepository) ListByEmployee(_ context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	var matched []attendance.Attendance
	r.store.read(func(t *tables) {
		for _, att := range t.attendances {
			if att.EmployeeID == employeeID && filter.Matches(att) {
				matched = append(matched, att)
			}
		}
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })
	return paginate(matched, filter.Offset(), filter.Limit), int64(len(matched)), nil
}
