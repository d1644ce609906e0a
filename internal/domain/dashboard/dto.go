package dashboard

// PendingCountsResponse is the reviewer badge data. A count the caller may not
// see is omitted rather than reported as zero.
type PendingCountsResponse struct {
	LeaveRequests         *int64 `json:"pending_leave_requests,omitempty"`
	AttendanceCorrections *int64 `json:"pending_attendance_corrections,omitempty"`
	OnLeaveToday          *int   `json:"on_leave_today,omitempty"`
}

// Total sums the visible counts.
func (r PendingCountsResponse) Total() int64 {
	var total int64
	if r.LeaveRequests != nil {
		total += *r.LeaveRequests
	}
	if r.AttendanceCorrections != nil {
		total += *r.AttendanceCorrections
	}
	return total
}
