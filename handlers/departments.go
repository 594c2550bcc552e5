package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"shiftrota/models"
	"shiftrota/rota"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// RosterHandler manages the directory side of the system: departments,
// employees and holidays.
type RosterHandler struct {
	db       *gorm.DB
	svc      *rota.Service
	validate *validator.Validate
}

func NewRosterHandler(db *gorm.DB, svc *rota.Service) *RosterHandler {
	return &RosterHandler{
		db:       db,
		svc:      svc,
		validate: validator.New(),
	}
}

type createDepartmentRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *RosterHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req createDepartmentRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	var count int64
	h.db.Model(&models.Department{}).Where("LOWER(name) = ?", strings.ToLower(req.Name)).Count(&count)
	if count > 0 {
		writeError(w, models.NewConflictError("department %q already exists", req.Name))
		return
	}

	dept := models.Department{Name: req.Name}
	if err := h.db.Create(&dept).Error; err != nil {
		writeError(w, models.NewStoreError("create department", err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": dept.ID, "name": dept.Name})
}

func (h *RosterHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	var depts []models.Department
	if err := h.db.Order("id").Find(&depts).Error; err != nil {
		writeError(w, models.NewStoreError("list departments", err))
		return
	}
	out := make([]map[string]any, 0, len(depts))
	for _, d := range depts {
		out = append(out, map[string]any{"id": d.ID, "name": d.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RosterHandler) RenameDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, models.NewValidationError("invalid department id"))
		return
	}

	var req createDepartmentRequest
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
	if err := h.db.First(&dept, id).Error; err != nil {
		writeError(w, models.NewNotFoundError("department %d not found", id))
		return
	}

	var count int64
	h.db.Model(&models.Department{}).
		Where("LOWER(name) = ? AND id <> ?", strings.ToLower(req.Name), dept.ID).
		Count(&count)
	if count > 0 {
		writeError(w, models.NewConflictError("department %q already exists", req.Name))
		return
	}

	dept.Name = req.Name
	if err := h.db.Save(&dept).Error; err != nil {
		writeError(w, models.NewStoreError("rename department", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": dept.ID, "name": dept.Name})
}
