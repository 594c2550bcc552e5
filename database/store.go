package database

import (
	"errors"
	"time"

	"shiftrota/models"
	"shiftrota/rota"

	"gorm.io/gorm"
)

// Store backs the rota engine with GORM. Compound operations run inside one
// transaction so a failure never leaves a partially-applied schedule.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Departments() ([]models.Department, error) {
	var depts []models.Department
	if err := s.db.Preload("Employees").Order("id").Find(&depts).Error; err != nil {
		return nil, models.NewStoreError("list departments", err)
	}
	return depts, nil
}

func (s *Store) Employees(departmentID uint) ([]models.Employee, error) {
	var emps []models.Employee
	q := s.db.Order("id")
	if departmentID > 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	if err := q.Find(&emps).Error; err != nil {
		return nil, models.NewStoreError("list employees", err)
	}
	return emps, nil
}

func (s *Store) Holidays() ([]models.Holiday, error) {
	var hols []models.Holiday
	if err := s.db.Order("date").Find(&hols).Error; err != nil {
		return nil, models.NewStoreError("list holidays", err)
	}
	return hols, nil
}

func scheduleQuery(db *gorm.DB, f rota.ScheduleFilter) *gorm.DB {
	q := db.Model(&models.Schedule{})
	if f.DepartmentID > 0 {
		q = q.Where("department_id = ?", f.DepartmentID)
	}
	if f.EmployeeID > 0 {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	if f.Year > 0 {
		q = q.Where("date >= ? AND date <= ?",
			time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(f.Year, time.December, 31, 0, 0, 0, 0, time.UTC))
	}
	return q
}

func (s *Store) Schedules(f rota.ScheduleFilter) ([]models.Schedule, error) {
	var rows []models.Schedule
	err := scheduleQuery(s.db, f).
		Preload("Department").Preload("Employee").
		Order("date, department_id, id").
		Find(&rows).Error
	if err != nil {
		return nil, models.NewStoreError("list schedules", err)
	}
	return rows, nil
}

func (s *Store) SchedulesOnLastDateBefore(departmentID uint, before time.Time) ([]models.Schedule, error) {
	var last models.Schedule
	err := s.db.Where("department_id = ? AND date < ?", departmentID, before).
		Order("date desc").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStoreError("find last scheduled date", err)
	}

	var rows []models.Schedule
	err = s.db.Where("department_id = ? AND date = ?", departmentID, last.Date).
		Order("id").Find(&rows).Error
	if err != nil {
		return nil, models.NewStoreError("load last scheduled date", err)
	}
	return rows, nil
}

func (s *Store) Apply(inserts []models.Schedule, deleteIDs []uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(deleteIDs) > 0 {
			if err := tx.Delete(&models.Schedule{}, deleteIDs).Error; err != nil {
				return err
			}
		}
		if len(inserts) > 0 {
			if err := tx.CreateInBatches(inserts, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewStoreError("apply repair", err)
	}
	return nil
}

func (s *Store) SwapAssignments(a, b *models.Schedule) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range []*models.Schedule{a, b} {
			err := tx.Model(&models.Schedule{}).Where("id = ?", row.ID).
				Updates(map[string]any{"employee_id": row.EmployeeID, "override": true}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewStoreError("swap assignments", err)
	}
	return nil
}

func (s *Store) RecordHoliday(h *models.Holiday) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Holiday
		err := tx.Where("date = ?", h.Date).First(&existing).Error
		switch {
		case err == nil:
			existing.Note = h.Note
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*h = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(h).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return tx.Where("date = ?", h.Date).Delete(&models.Schedule{}).Error
	})
	if err != nil {
		return models.NewStoreError("record holiday", err)
	}
	return nil
}

func (s *Store) DeleteSchedules(f rota.ScheduleFilter) (int64, error) {
	q := scheduleQuery(s.db, f)
	if f.DepartmentID == 0 && f.EmployeeID == 0 && f.Date == nil && f.From == nil && f.To == nil && f.Year == 0 {
		q = q.Where("1 = 1")
	}
	res := q.Delete(&models.Schedule{})
	if res.Error != nil {
		return 0, models.NewStoreError("delete schedules", res.Error)
	}
	return res.RowsAffected, nil
}
