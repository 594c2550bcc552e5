package models

import (
	"time"
)

type Employee struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Name         string      `gorm:"not null;size:200" json:"name"`
	DepartmentID uint        `gorm:"not null;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	// GroupNum is only meaningful for the group-rostered department ("Spec Ops");
	// it must be nil everywhere else.
	GroupNum *int `gorm:"column:group_num" json:"group_num"`
}
