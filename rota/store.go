package rota

import (
	"time"

	"shiftrota/models"
)

// ScheduleFilter narrows schedule queries and deletions. Zero-valued fields
// are ignored.
type ScheduleFilter struct {
	DepartmentID uint
	EmployeeID   uint
	Date         *time.Time
	From         *time.Time
	To           *time.Time
	Year         int
}

// Store is the entity-store contract the core consumes. Implementations must
// make each compound method one transaction: a failure leaves the store in
// the pre-call state.
type Store interface {
	Departments() ([]models.Department, error)
	Employees(departmentID uint) ([]models.Employee, error)
	Holidays() ([]models.Holiday, error)

	Schedules(f ScheduleFilter) ([]models.Schedule, error)
	// SchedulesOnLastDateBefore returns every row of the department's most
	// recent scheduled date strictly before the cutoff, or nil if none.
	SchedulesOnLastDateBefore(departmentID uint, before time.Time) ([]models.Schedule, error)

	// Apply commits a repair run's staged writes atomically.
	Apply(inserts []models.Schedule, deleteIDs []uint) error
	// SwapAssignments exchanges the employee references of two rows and marks
	// both as overrides, in one transaction.
	SwapAssignments(a, b *models.Schedule) error
	// RecordHoliday upserts the holiday by date and deletes every schedule row
	// on that date, in one transaction.
	RecordHoliday(h *models.Holiday) error
	DeleteSchedules(f ScheduleFilter) (int64, error)
}
