package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"shiftrota/models"
	"shiftrota/rota"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type createEmployeeRequest struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID uint   `json:"department_id" validate:"required"`
	GroupNum     *int   `json:"group_num" validate:"omitempty,min=1,max=4"`
}

func (h *RosterHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	var dept models.Department
	if err := h.db.First(&dept, req.DepartmentID).Error; err != nil {
		writeError(w, models.NewNotFoundError("department %d not found", req.DepartmentID))
		return
	}
	h.createEmployee(w, &dept, req.Name, req.GroupNum)
}

type createEmployeeByNameRequest struct {
	Name           string `json:"name" validate:"required"`
	DepartmentName string `json:"department_name" validate:"required"`
	GroupNum       *int   `json:"group_num" validate:"omitempty,min=1,max=4"`
}

func (h *RosterHandler) CreateEmployeeByName(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeByNameRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.DepartmentName = strings.TrimSpace(req.DepartmentName)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	var dept models.Department
	err := h.db.Where("LOWER(name) = ?", strings.ToLower(req.DepartmentName)).First(&dept).Error
	if err != nil {
		writeError(w, models.NewNotFoundError("department %q not found", req.DepartmentName))
		return
	}
	h.createEmployee(w, &dept, req.Name, req.GroupNum)
}

func (h *RosterHandler) createEmployee(w http.ResponseWriter, dept *models.Department, name string, groupNum *int) {
	// Group numbers only exist in the group-rostered department.
	if dept.Name != rota.DeptSpecOps {
		groupNum = nil
	}

	emp := models.Employee{Name: name, DepartmentID: dept.ID, GroupNum: groupNum}
	if err := h.db.Create(&emp).Error; err != nil {
		writeError(w, models.NewStoreError("create employee", err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         emp.ID,
		"name":       emp.Name,
		"department": dept.Name,
		"group_num":  emp.GroupNum,
	})
}

func (h *RosterHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	var emps []models.Employee
	if err := h.db.Order("id").Find(&emps).Error; err != nil {
		writeError(w, models.NewStoreError("list employees", err))
		return
	}
	out := make([]map[string]any, 0, len(emps))
	for _, e := range emps {
		out = append(out, map[string]any{
			"id":            e.ID,
			"name":          e.Name,
			"department_id": e.DepartmentID,
			"group_num":     e.GroupNum,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type renameEmployeeRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *RosterHandler) RenameEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, models.NewValidationError("invalid employee id"))
		return
	}

	var req renameEmployeeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	var emp models.Employee
	if err := h.db.First(&emp, id).Error; err != nil {
		writeError(w, models.NewNotFoundError("employee %d not found", id))
		return
	}

	emp.Name = req.Name
	if err := h.db.Save(&emp).Error; err != nil {
		writeError(w, models.NewStoreError("rename employee", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": emp.ID, "name": emp.Name})
}

type removeEmployeeRequest struct {
	Name string `json:"name" validate:"required"`
}

// RemoveEmployeeByName deletes the employee and every schedule row that
// references them, past and future, in one transaction.
func (h *RosterHandler) RemoveEmployeeByName(w http.ResponseWriter, r *http.Request) {
	var req removeEmployeeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	var emp models.Employee
	err := h.db.Where("LOWER(name) = ?", strings.ToLower(req.Name)).First(&emp).Error
	if err != nil {
		writeError(w, models.NewNotFoundError("no employee found with name %s", req.Name))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", emp.ID).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&emp).Error
	})
	if err != nil {
		writeError(w, models.NewStoreError("remove employee", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "removed " + req.Name + " successfully"})
}
