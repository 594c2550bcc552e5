package handlers

import (
	"net/http"

	"shiftrota/models"
)

type holidayRequest struct {
	Date string `json:"date" validate:"required"`
	Note string `json:"note"`
}

// CreateHoliday upserts a holiday and wipes any assignments on that date; the
// date stays excluded from repair until the holiday is removed.
func (h *RosterHandler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req holidayRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	date, err := parseFlexibleDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}

	hol, err := h.svc.RecordHoliday(date, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date": hol.Date.Format("2006-01-02"),
		"note": hol.Note,
	})
}

func (h *RosterHandler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	var hols []models.Holiday
	if err := h.db.Order("date").Find(&hols).Error; err != nil {
		writeError(w, models.NewStoreError("list holidays", err))
		return
	}
	out := make([]map[string]any, 0, len(hols))
	for _, hol := range hols {
		out = append(out, map[string]any{
			"date": hol.Date.Format("2006-01-02"),
			"note": hol.Note,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
