package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ethos-hrms/hrms-backend-go/internal/domain/leave"
	"github.com/google/uuid"
)

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{store: store}
}

// withEmployeeName fills the response-only name field. Caller holds the lock.
func withEmployeeName(t *tables, req leave.LeaveRequest) leave.LeaveRequest {
	if emp, ok := t.employees[req.EmployeeID]; ok {
		name := emp.FullName()
		req.EmployeeName = &name
	}
	return req
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	err := r.store.write(ctx, func(t *tables) error {
		if request.ID == "" {
			request.ID = uuid.New().String()
		}
		now := r.store.now()
		request.SubmittedAt, request.UpdatedAt = now, now
		request.EmployeeName = nil
		t.leaveRequests[request.ID] = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

func (r *leaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	var (
		req leave.LeaveRequest
		ok  bool
	)
	r.store.read(func(t *tables) {
		req, ok = t.leaveRequests[id]
		if ok {
			req = withEmployeeName(t, req)
		}
	})
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *leaveRequestRepository) List(_ context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	var matched []leave.LeaveRequest
	r.store.read(func(t *tables) {
		for _, req := range t.leaveRequests {
			if filter.Matches(req) {
				matched = append(matched, withEmployeeName(t, req))
			}
		}
	})

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			if filter.SortOrder == "asc" {
				return a.SubmittedAt.Before(b.SubmittedAt)
			}
			return a.SubmittedAt.After(b.SubmittedAt)
		}
		return a.ID < b.ID
	})

	return paginate(matched, filter.Offset(), filter.Limit), int64(len(matched)), nil
}

func (r *leaveRequestRepository) TransitionStatus(ctx context.Context, id string, to leave.LeaveRequestStatus, review leave.Review) (leave.LeaveRequest, error) {
	var updated leave.LeaveRequest
	err := r.store.write(ctx, func(t *tables) error {
		req, ok := t.leaveRequests[id]
		if !ok {
			return leave.ErrLeaveRequestNotFound
		}
		if !req.IsPending() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}
		req.Status = to
		if review.ReviewerID != "" {
			reviewer := review.ReviewerID
			req.ReviewedBy = &reviewer
		}
		if !review.ReviewedAt.IsZero() {
			at := review.ReviewedAt
			req.ReviewedAt = &at
		}
		req.ManagerNotes = review.Notes
		req.UpdatedAt = r.store.now()
		t.leaveRequests[id] = req
		updated = req
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return updated, nil
}

func (r *leaveRequestRepository) ListApprovedCovering(_ context.Context, day time.Time) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	r.store.read(func(t *tables) {
		for _, req := range t.leaveRequests {
			if req.Status == leave.LeaveRequestStatusApproved && req.Covers(day) {
				out = append(out, withEmployeeName(t, req))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeName != nil && out[j].EmployeeName != nil && *out[i].EmployeeName != *out[j].EmployeeName {
			return *out[i].EmployeeName < *out[j].EmployeeName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *leaveRequestRepository) CountByStatus(_ context.Context, status leave.LeaveRequestStatus) (int64, error) {
	var count int64
	r.store.read(func(t *tables) {
		for _, req := range t.leaveRequests {
			if req.Status == status {
				count++
			}
		}
	})
	return count, nil
}
