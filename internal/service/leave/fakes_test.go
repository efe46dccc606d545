package leave

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/staffly/hrm-backend-go/internal/domain/attendance"
	"github.com/staffly/hrm-backend-go/internal/domain/employee"
	"github.com/staffly/hrm-backend-go/internal/domain/leave"
)

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(emps ...employee.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, e := range emps {
		r.employees[e.ID] = e
	}
	return r
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeLeaveRepo keeps leave requests in memory and resolves the employee
// join fields from the employee fake, the way the SQL join does.
type fakeLeaveRepo struct {
	leaves    map[string]leave.Leave
	employees *fakeEmployeeRepo
}

func newFakeLeaveRepo(employees *fakeEmployeeRepo) *fakeLeaveRepo {
	return &fakeLeaveRepo{leaves: make(map[string]leave.Leave), employees: employees}
}

func (r *fakeLeaveRepo) add(l leave.Leave) leave.Leave {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = leave.LeaveStatusPending
	}
	r.leaves[l.ID] = l
	return l
}

func (r *fakeLeaveRepo) joined(l leave.Leave) leave.Leave {
	if emp, ok := r.employees.employees[l.EmployeeID]; ok {
		l.EmployeeName = &emp.FullName
		l.EmployeeCode = &emp.EmployeeCode
		l.EmployeeEmail = &emp.Email
		l.EmployeeIsActive = emp.IsActive
		l.Designation = emp.Designation
		l.DepartmentID = emp.DepartmentID
		l.DepartmentName = emp.DepartmentName
	}
	if l.ApprovedByID != nil {
		if ap, ok := r.employees.employees[*l.ApprovedByID]; ok {
			l.ApproverName = &ap.FullName
			l.ApproverCode = &ap.EmployeeCode
		}
	}
	return l
}

func (r *fakeLeaveRepo) GetByID(_ context.Context, id string) (leave.Leave, error) {
	l, ok := r.leaves[id]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveRequestNotFound
	}
	return r.joined(l), nil
}

func (r *fakeLeaveRepo) UpdateDecision(_ context.Context, id string, status leave.LeaveStatus, actionAt time.Time, approverID string) error {
	l, ok := r.leaves[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	l.Status = status
	l.ActionAt = &actionAt
	l.ApprovedByID = &approverID
	l.UpdatedAt = time.Now()
	r.leaves[id] = l
	return nil
}

func (r *fakeLeaveRepo) List(_ context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	var matched []leave.Leave
	for _, l := range r.leaves {
		l = r.joined(l)
		if filter.Status != nil && string(l.Status) != *filter.Status {
			continue
		}
		if filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.DepartmentID != nil && (l.DepartmentID == nil || *l.DepartmentID != *filter.DepartmentID) {
			continue
		}
		matched = append(matched, l)
	}

	sort.Slice(matched, func(i, j int) bool {
		iPending := matched[i].Status == leave.LeaveStatusPending
		jPending := matched[j].Status == leave.LeaveStatusPending
		if iPending != jPending {
			return iPending
		}
		return matched[i].RequestedAt.After(matched[j].RequestedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeLeaveRepo) CountByStatus(_ context.Context, departmentID *string) (leave.LeaveStatistics, error) {
	var stats leave.LeaveStatistics
	for _, l := range r.leaves {
		l = r.joined(l)
		if departmentID != nil && (l.DepartmentID == nil || *l.DepartmentID != *departmentID) {
			continue
		}
		stats.Total++
		switch l.Status {
		case leave.LeaveStatusPending:
			stats.Pending++
		case leave.LeaveStatusApproved:
			stats.Approved++
		case leave.LeaveStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

// fakeAttendanceRepo implements only what the leave workflow exercises. The
// upsert can be armed to fail after N calls to test transaction rollback.
type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance // employeeID|YYYY-MM-DD -> record

	failUpsertAfter int // fail the Nth+1 upsert; -1 disables
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		records:         make(map[string]attendance.Attendance),
		failUpsertAfter: -1,
	}
}

func (r *fakeAttendanceRepo) Upsert(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if r.failUpsertAfter == 0 {
		return attendance.Attendance{}, errors.New("connection reset")
	}
	if r.failUpsertAfter > 0 {
		r.failUpsertAfter--
	}

	key := att.EmployeeID + "|" + att.Date.Format("2006-01-02")
	if existing, ok := r.records[key]; ok {
		existing.Status = att.Status
		existing.Source = att.Source
		if att.Notes != nil {
			existing.Notes = att.Notes
		}
		r.records[key] = existing
		return existing, nil
	}
	att.ID = uuid.NewString()
	r.records[key] = att
	return att, nil
}

func (r *fakeAttendanceRepo) GetByID(context.Context, string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) List(context.Context, attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

func (r *fakeAttendanceRepo) ListByEmployee(context.Context, string, attendance.EmployeeAttendanceFilter) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

func (r *fakeAttendanceRepo) ExistingDates(context.Context, string, time.Time, time.Time) (map[string]struct{}, error) {
	return nil, nil
}

func (r *fakeAttendanceRepo) BulkCreateAbsences(context.Context, []attendance.Attendance) (int64, error) {
	return 0, nil
}

func (r *fakeAttendanceRepo) Update(context.Context, attendance.UpdateRequest) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) Delete(context.Context, string) error {
	return attendance.ErrAttendanceNotFound
}

func (r *fakeAttendanceRepo) SummaryByEmployee(context.Context, time.Time) ([]attendance.SummaryRow, error) {
	return nil, nil
}

// fakeTransactor snapshots both stores before running fn and restores them
// when fn fails, mirroring a database rollback.
type fakeTransactor struct {
	leaves     *fakeLeaveRepo
	attendance *fakeAttendanceRepo
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	leavesBefore := make(map[string]leave.Leave, len(t.leaves.leaves))
	for k, v := range t.leaves.leaves {
		leavesBefore[k] = v
	}
	attBefore := make(map[string]attendance.Attendance, len(t.attendance.records))
	for k, v := range t.attendance.records {
		attBefore[k] = v
	}

	if err := fn(ctx); err != nil {
		t.leaves.leaves = leavesBefore
		t.attendance.records = attBefore
		return err
	}
	return nil
}
