// Package memory holds in-process repositories for local runs and tests.
// Every write is serialized; WithinTx adds rollback by restoring a snapshot.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/attendance"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/employee"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/ethos-hrms/hrms-backend-go/internal/domain/notification"
	"github.com/ethos-hrms/hrms-backend-go/internal/pkg/database"
)

type tables struct {
	employees     map[string]employee.Employee
	leaveRequests map[string]leave.LeaveRequest
	attendances   map[string]attendance.Attendance
	attendanceKey map[string]string // employee_id|date -> attendance id
	corrections   map[string]attendance.Correction
	notifications map[string]notification.Notification
}

func newTables() tables {
	return tables{
		employees:     make(map[string]employee.Employee),
		leaveRequests: make(map[string]leave.LeaveRequest),
		attendances:   make(map[string]attendance.Attendance),
		attendanceKey: make(map[string]string),
		corrections:   make(map[string]attendance.Correction),
		notifications: make(map[string]notification.Notification),
	}
}

func (t tables) clone() tables {
	c := newTables()
	for k, v := range t.employees {
		c.employees[k] = v
	}
	for k, v := range t.leaveRequests {
		c.leaveRequests[k] = v
	}
	for k, v := range t.attendances {
		c.attendances[k] = v
	}
	for k, v := range t.attendanceKey {
		c.attendanceKey[k] = v
	}
	for k, v := range t.corrections {
		c.corrections[k] = v
	}
	for k, v := range t.notifications {
		c.notifications[k] = v
	}
	return c
}

// Store is the shared backing state of all memory repositories.
type Store struct {
	writeMu sync.Mutex   // held by a transaction or a single write
	mu      sync.RWMutex // guards data
	data    tables
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: newTables(),
		now:  time.Now,
	}
}

// SetClock replaces the time source. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

type inTxKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(inTxKey{}).(bool)
	return v
}

// WithinTx implements database.Transactor. Transactions run one at a time;
// a failing fn leaves the store exactly as it was before.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	committed := false
	defer func() {
		if !committed {
			s.mu.Lock()
			s.data = snapshot
			s.mu.Unlock()
		}
	}()

	if err := fn(context.WithValue(ctx, inTxKey{}, true)); err != nil {
		return err
	}
	committed = true
	return nil
}

var _ database.Transactor = (*Store)(nil)

// write runs fn with exclusive access. Outside a transaction it also takes
// writeMu so that a rollback can never discard it.
func (s *Store) write(ctx context.Context, fn func(t *tables) error) error {
	if !inTx(ctx) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

func (s *Store) read(fn func(t *tables)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
