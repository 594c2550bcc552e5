package rota

import (
	"time"

	"shiftrota/models"
)

// NameResolver picks the candidate closest to name, if any candidate is
// similar enough. The swap endpoint receives free-form names, so matching is
// deliberately pluggable.
type NameResolver interface {
	Resolve(name string, candidates []string) (string, bool)
}

// Service exposes the scheduling operations the transport layer calls.
type Service struct {
	store    Store
	resolver NameResolver
	now      func() time.Time
}

func NewService(store Store, resolver NameResolver) *Service {
	return &Service{store: store, resolver: resolver, now: time.Now}
}

// WithNow fixes the service clock. Tests use it to pin "today".
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Swap exchanges the assignments of two employees across two dates and marks
// both rows as overrides so later repairs leave them alone.
func (s *Service) Swap(employee1, employee2 string, date1, date2 time.Time) error {
	if employee1 == "" || employee2 == "" {
		return models.NewValidationError("both employee names are required")
	}

	row1, err := s.findAssignment(employee1, Day(date1))
	if err != nil {
		return err
	}
	row2, err := s.findAssignment(employee2, Day(date2))
	if err != nil {
		return err
	}

	row1.EmployeeID, row2.EmployeeID = row2.EmployeeID, row1.EmployeeID
	row1.Override, row2.Override = true, true
	return s.store.SwapAssignments(row1, row2)
}

func (s *Service) findAssignment(name string, date time.Time) (*models.Schedule, error) {
	rows, err := s.store.Schedules(ScheduleFilter{Date: &date})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, models.NewNotFoundError("no schedule found for %s", date.Format("2006-01-02"))
	}

	candidates := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Employee != nil {
			candidates = append(candidates, row.Employee.Name)
		}
	}
	matched, ok := s.resolver.Resolve(name, candidates)
	if !ok {
		return nil, models.NewNotFoundError("no assignment for %q on %s", name, date.Format("2006-01-02"))
	}
	for i := range rows {
		if rows[i].Employee != nil && rows[i].Employee.Name == matched {
			return &rows[i], nil
		}
	}
	return nil, models.NewNotFoundError("no assignment for %q on %s", name, date.Format("2006-01-02"))
}

// RecordHoliday upserts a holiday and removes every assignment on that date.
// The date stays excluded from all future repairs until the holiday is gone.
func (s *Service) RecordHoliday(date time.Time, note string) (*models.Holiday, error) {
	if date.IsZero() {
		return nil, models.NewValidationError("holiday date is required")
	}
	h := &models.Holiday{Date: Day(date), Note: note}
	if err := s.store.RecordHoliday(h); err != nil {
		return nil, err
	}
	return h, nil
}

// DeleteScope selects which schedule rows to drop: everything, one year, or
// one date. Exactly one field must be set.
type DeleteScope struct {
	All  bool
	Year int
	Date *time.Time
}

func (s *Service) DeleteSchedules(scope DeleteScope) (int64, error) {
	switch {
	case scope.All:
		return s.store.DeleteSchedules(ScheduleFilter{})
	case scope.Year > 0:
		return s.store.DeleteSchedules(ScheduleFilter{Year: scope.Year})
	case scope.Date != nil:
		d := Day(*scope.Date)
		return s.store.DeleteSchedules(ScheduleFilter{Date: &d})
	default:
		return 0, models.NewValidationError("provide 'all', 'year', or 'date'")
	}
}
