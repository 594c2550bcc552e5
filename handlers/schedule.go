package handlers

import (
	"net/http"

	"shiftrota/models"
	"shiftrota/rota"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ScheduleHandler wraps the rotation core: generation/repair, listing, bulk
// deletion, swaps, CSV import and spreadsheet export.
type ScheduleHandler struct {
	db       *gorm.DB
	svc      *rota.Service
	validate *validator.Validate
}

func NewScheduleHandler(db *gorm.DB, svc *rota.Service) *ScheduleHandler {
	return &ScheduleHandler{
		db:       db,
		svc:      svc,
		validate: validator.New(),
	}
}

type generateRequest struct {
	Year int `json:"year"`
}

// Generate runs the repair engine for the remaining Saturdays of the target
// year. A missing or unparseable year falls back to the current one.
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	_ = readJSON(r, &req)

	report, err := h.svc.GenerateOrRepair(req.Year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	var rows []models.Schedule
	err := h.db.Preload("Department").Preload("Employee").
		Order("date, department_id, id").Find(&rows).Error
	if err != nil {
		writeError(w, models.NewStoreError("list schedules", err))
		return
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		entry := map[string]any{
			"date":     row.Date.Format("2006-01-02"),
			"override": row.Override,
		}
		if row.Department != nil {
			entry["department"] = row.Department.Name
		}
		if row.Employee != nil {
			entry["employee"] = row.Employee.Name
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, out)
}

type deleteScheduleRequest struct {
	All  bool   `json:"all"`
	Year int    `json:"year"`
	Date string `json:"date"`
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteScheduleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}

	scope := rota.DeleteScope{All: req.All, Year: req.Year}
	if req.Date != "" {
		date, err := parseFlexibleDate(req.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		scope.Date = &date
	}

	deleted, err := h.svc.DeleteSchedules(scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

type swapRequest struct {
	Employee1    string `json:"employee1" validate:"required"`
	Employee2    string `json:"employee2" validate:"required"`
	OriginalDate string `json:"original_date" validate:"required"`
	NewDate      string `json:"new_date" validate:"required"`
}

// Swap exchanges two assignments across two dates. Employee names are matched
// fuzzily against whoever is scheduled on each date; both rows come out
// flagged as overrides.
func (h *ScheduleHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	date1, err := parseFlexibleDate(req.OriginalDate)
	if err != nil {
		writeError(w, err)
		return
	}
	date2, err := parseFlexibleDate(req.NewDate)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Swap(req.Employee1, req.Employee2, date1, date2); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "swapped " + req.Employee1 + " and " + req.Employee2,
	})
}
