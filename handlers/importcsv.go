package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shiftrota/models"
	"shiftrota/rota"

	"gorm.io/gorm"
)

// ImportCSV loads assignments from an uploaded CSV with columns
// date, department, employee. Rows land as overrides so a later repair does
// not rewrite them. Single-slot departments replace any generated row on the
// same date; multi-slot departments only reject duplicates of the same person.
func (h *ScheduleHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, models.NewValidationError("CSV file is required"))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(w, models.NewValidationError("file must be a .csv"))
		return
	}

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	head, err := reader.Read()
	if err != nil {
		writeError(w, models.NewValidationError("empty or unreadable CSV"))
		return
	}
	cols := map[string]int{}
	for i, name := range head {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "department", "employee"} {
		if _, ok := cols[required]; !ok {
			writeError(w, models.NewValidationError("CSV is missing the %q column", required))
			return
		}
	}

	imported := 0
	var skipped []string
	err = h.db.Transaction(func(tx *gorm.DB) error {
		for {
			record, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("unreadable row: %v", err))
				continue
			}

			rawDate := strings.TrimSpace(record[cols["date"]])
			deptName := strings.TrimSpace(record[cols["department"]])
			empName := strings.TrimSpace(record[cols["employee"]])

			date, err := parseFlexibleDate(rawDate)
			if err != nil {
				skipped = append(skipped, "invalid date format: "+rawDate)
				continue
			}

			var dept models.Department
			if err := tx.Where("LOWER(name) = ?", strings.ToLower(deptName)).First(&dept).Error; err != nil {
				skipped = append(skipped, fmt.Sprintf("dept not found: %s (%s)", deptName, rawDate))
				continue
			}

			var emp models.Employee
			err = tx.Where("department_id = ? AND LOWER(name) = ?", dept.ID, strings.ToLower(empName)).
				First(&emp).Error
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("employee not found: %s (%s, %s)", empName, rawDate, deptName))
				continue
			}

			if rota.RuleFor(dept.Name).MultiSlot {
				var count int64
				tx.Model(&models.Schedule{}).
					Where("date = ? AND department_id = ? AND employee_id = ?", date, dept.ID, emp.ID).
					Count(&count)
				if count > 0 {
					continue
				}
			} else {
				err := tx.Where("date = ? AND department_id = ? AND override = ?", date, dept.ID, false).
					Delete(&models.Schedule{}).Error
				if err != nil {
					return err
				}
			}

			row := models.Schedule{
				Date:         date,
				DepartmentID: dept.ID,
				EmployeeID:   emp.ID,
				Override:     true,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			imported++
		}
	})
	if err != nil {
		writeError(w, models.NewStoreError("import schedule", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("imported %d rows", imported),
		"skipped": skipped,
	})
}
