package memory

import (
	"context"
	"sort"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type correctionRepository struct {
	store *Store
}

func NewCorrectionRepository(store *Store) attendance.CorrectionRepository {
	return &correctionRepository{store: store}
}

func withCorrectionEmployeeName(t *tables, c attendance.Correction) attendance.Correction {
	if emp, ok := t.employees[c.EmployeeID]; ok {
		name := emp.FullName()
		c.EmployeeName = &name
	}
	return c
}

func (r *correctionRepository) Create(ctx context.Context, correction attendance.Correction) (attendance.Correction, error) {
	err := r.store.write(ctx, func(t *tables) error {
		if correction.ID == "" {
			correction.ID = uuid.New().String()
		}
		correction.Date = attendance.DateOf(correction.Date)
		now := r.store.now()
		correction.CreatedAt, correction.UpdatedAt = now, now
		correction.EmployeeName = nil
		t.corrections[correction.ID] = correction
		return nil
	})
	if err != nil {
		return attendance.Correction{}, err
	}
	return correction, nil
}

func (r *correctionRepository) GetByID(_ context.Context, id string) (attendance.Correction, error) {
	var (
		c  attendance.Correction
		ok bool
	)
	r.store.read(func(t *tables) {
		c, ok = t.corrections[id]
		if ok {
			c = withCorrectionEmployeeName(t, c)
		}
	})
	if !ok {
		return attendance.Correction{}, attendance.ErrCorrectionNotFound
	}
	return c, nil
}

func (r *correctionRepository) List(_ context.Context, filter attendance.CorrectionFilter) ([]attendance.Correction, int64, error) {
	var matched []attendance.Correction
	r.store.read(func(t *tables) {
		for _, c := range t.corrections {
			if filter.Matches(c) {
				matched = append(matched, withCorrectionEmployeeName(t, c))
			}
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if filter.SortOrder == "asc" {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return paginate(matched, filter.Offset(), filter.Limit), int64(len(matched)), nil
}

func (r *correctionRepository) TransitionStatus(ctx context.Context, id string, to attendance.CorrectionStatus, review attendance.Review) (attendance.Correction, error) {
	var updated attendance.Correction
	err := r.store.write(ctx, func(t *tables) error {
		c, ok := t.corrections[id]
		if !ok {
			return attendance.ErrCorrectionNotFound
		}
		if !c.IsPending() {
			return attendance.ErrCorrectionAlreadyProcessed
		}
		c.Status = to
		if review.ReviewerID != "" {
			reviewer := review.ReviewerID
			c.ReviewedBy = &reviewer
		}
		if !review.ReviewedAt.IsZero() {
			at := review.ReviewedAt
			c.ReviewedAt = &at
		}
		c.ReviewerNotes = review.Notes
		c.UpdatedAt = r.store.now()
		t.corrections[id] = c
		updated = c
		return nil
	})
	if err != nil {
		return attendance.Correction{}, err
	}
	return updated, nil
}

func (r *correctionRepository) LinkAttendance(ctx context.Context, id, attendanceID string) error {
	return r.store.write(ctx, func(t *tables) error {
		c, ok := t.corrections[id]
		if !ok {
			return attendance.ErrCorrectionNotFound
		}
		if _, ok := t.attendances[attendanceID]; !ok {
			return attendance.ErrAttendanceNotFound
		}
		c.AttendanceID = &attendanceID
		c.UpdatedAt = r.store.now()
		t.corrections[id] = c
		return nil
	})
}

func (r *correctionRepository) CountByStatus(_ context.Context, status attendance.CorrectionStatus) (int64, error) {
	var count int64
	r.store.read(func(t *tables) {
		for _, c := range t.corrections {
			if c.Status == status {
				count++
			}
		}
	})
	return count, nil
}
