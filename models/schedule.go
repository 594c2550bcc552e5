package models

import (
	"time"
)

// Schedule is one assignment: this employee covers this department's shift on
// this Saturday. Override rows were placed by hand (swap, manual import) and
// are never deleted or regenerated by repair.
type Schedule struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Date         time.Time   `gorm:"not null;index;type:date" json:"date"`
	DepartmentID uint        `gorm:"not null;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	EmployeeID   uint        `gorm:"not null;index" json:"employee_id"`
	Employee     *Employee   `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Override     bool        `gorm:"default:false" json:"override"`
}
