package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/staffly/hrm-backend-go/internal/domain/attendance"
	"github.com/staffly/hrm-backend-go/internal/domain/employee"
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
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeAttendanceRepo keeps records in memory, enforcing the one record per
// (employee, day) rule the real table enforces with a unique constraint.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance // by ID
	byDay   map[string]string                // employeeID|YYYY-MM-DD -> ID

	employees *fakeEmployeeRepo // for SummaryByEmployee

	existingDatesErr map[string]error // per-employee failure injection
}

func newFakeAttendanceRepo(employees *fakeEmployeeRepo) *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		records:          make(map[string]attendance.Attendance),
		byDay:            make(map[string]string),
		employees:        employees,
		existingDatesErr: make(map[string]error),
	}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (r *fakeAttendanceRepo) Upsert(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(att.EmployeeID, att.Date)
	if id, ok := r.byDay[key]; ok {
		existing := r.records[id]
		existing.Status = att.Status
		existing.Source = att.Source
		if att.Notes != nil {
			existing.Notes = att.Notes
		}
		existing.UpdatedAt = time.Now()
		r.records[id] = existing
		return existing, nil
	}

	att.ID = uuid.NewString()
	att.CreatedAt = time.Now()
	att.UpdatedAt = att.CreatedAt
	r.records[att.ID] = att
	r.byDay[key] = att.ID
	return att, nil
}

func (r *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	att, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (r *fakeAttendanceRepo) all(employeeID string) []attendance.Attendance {
	var out []attendance.Attendance
	for _, att := range r.records {
		if employeeID == "" || att.EmployeeID == employeeID {
			out = append(out, att)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r *fakeAttendanceRepo) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employeeID := ""
	if filter.EmployeeID != nil {
		employeeID = *filter.EmployeeID
	}

	var matched []attendance.Attendance
	for _, att := range r.all(employeeID) {
		if filter.Status != nil && string(att.Status) != *filter.Status {
			continue
		}
		day := att.Date.Format("2006-01-02")
		if filter.StartDate != nil && day < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && day > *filter.EndDate {
			continue
		}
		matched = append(matched, att)
	}

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

func (r *fakeAttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, filter attendance.EmployeeAttendanceFilter) ([]attendance.Attendance, int64, error) {
	return r.List(ctx, attendance.AttendanceFilter{
		EmployeeID: &employeeID,
		Status:     filter.Status,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
}

func (r *fakeAttendanceRepo) ExistingDates(_ context.Context, employeeID string, from, to time.Time) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.existingDatesErr[employeeID]; err != nil {
		return nil, err
	}

	out := make(map[string]struct{})
	for _, att := range r.records {
		if att.EmployeeID != employeeID {
			continue
		}
		if att.Date.Before(from) || att.Date.After(to) {
			continue
		}
		out[att.Date.Format("2006-01-02")] = struct{}{}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) BulkCreateAbsences(_ context.Context, records []attendance.Attendance) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var inserted int64
	for _, att := range records {
		key := dayKey(att.EmployeeID, att.Date)
		if _, ok := r.byDay[key]; ok {
			continue
		}
		att.ID = uuid.NewString()
		att.CreatedAt = time.Now()
		att.UpdatedAt = att.CreatedAt
		r.records[att.ID] = att
		r.byDay[key] = att.ID
		inserted++
	}
	return inserted, nil
}

func (r *fakeAttendanceRepo) Update(_ context.Context, req attendance.UpdateRequest) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.Status == nil && req.Notes == nil {
		return attendance.Attendance{}, attendance.ErrNoFieldsToUpdate
	}

	att, ok := r.records[req.ID]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if req.Status != nil {
		att.Status = attendance.Status(*req.Status)
	}
	if req.Notes != nil {
		att.Notes = req.Notes
	}
	att.Source = attendance.SourceManual
	att.UpdatedAt = time.Now()
	r.records[req.ID] = att
	return att, nil
}

func (r *fakeAttendanceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	att, ok := r.records[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.records, id)
	delete(r.byDay, dayKey(att.EmployeeID, att.Date))
	return nil
}

func (r *fakeAttendanceRepo) SummaryByEmployee(_ context.Context, through time.Time) ([]attendance.SummaryRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rows []attendance.SummaryRow
	for _, emp := range r.employees.employees {
		if !emp.IsActive {
			continue
		}
		row := attendance.SummaryRow{
			EmployeeID:     emp.ID,
			EmployeeCode:   emp.EmployeeCode,
			EmployeeName:   emp.FullName,
			DepartmentName: emp.DepartmentName,
			JoinDate:       emp.JoinDate,
		}
		for _, att := range r.records {
			if att.EmployeeID != emp.ID || att.Date.Before(emp.JoinDate) || att.Date.After(through) {
				continue
			}
			switch att.Status {
			case attendance.StatusPresent, attendance.StatusHalfDay:
				row.PresentDays++
			case attendance.StatusAbsent:
				row.AbsentDays++
			case attendance.StatusOnLeave:
				row.OnLeaveDays++
			case attendance.StatusLate:
				row.LateDays++
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].EmployeeID < rows[j].EmployeeID })
	return rows, nil
}
