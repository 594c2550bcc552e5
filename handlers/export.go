package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"shiftrota/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Saturday Schedule"

// ExportXLSX streams the whole schedule as a spreadsheet: one row per
// employee, one column per scheduled Saturday, an "x" where they work.
func (h *ScheduleHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	var rows []models.Schedule
	err := h.db.Order("date, department_id, id").Find(&rows).Error
	if err != nil {
		writeError(w, models.NewStoreError("list schedules", err))
		return
	}

	var depts []models.Department
	if err := h.db.Preload("Employees").Order("id").Find(&depts).Error; err != nil {
		writeError(w, models.NewStoreError("list departments", err))
		return
	}

	dateSet := map[time.Time]bool{}
	worked := map[uint]map[time.Time]bool{}
	for _, row := range rows {
		d := row.Date
		dateSet[d] = true
		if worked[row.EmployeeID] == nil {
			worked[row.EmployeeID] = map[time.Time]bool{}
		}
		worked[row.EmployeeID][d] = true
	}
	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", exportSheet)

	setCell := func(col, rowNum int, value string) {
		cell, err := excelize.CoordinatesToCellName(col, rowNum)
		if err != nil {
			return
		}
		f.SetCellValue(exportSheet, cell, value)
	}

	setCell(1, 1, "Department")
	setCell(2, 1, "Employee")
	for i, d := range dates {
		setCell(3+i, 1, d.Format("2006-01-02"))
	}

	rowNum := 2
	for _, dept := range depts {
		emps := dept.Employees
		sort.Slice(emps, func(i, j int) bool { return emps[i].ID < emps[j].ID })
		for _, emp := range emps {
			setCell(1, rowNum, dept.Name)
			setCell(2, rowNum, emp.Name)
			for i, d := range dates {
				if worked[emp.ID][d] {
					setCell(3+i, rowNum, "x")
				}
			}
			rowNum++
		}
	}

	f.SetColWidth(exportSheet, "A", "B", 20)
	if len(dates) > 0 {
		last, err := excelize.ColumnNumberToName(2 + len(dates))
		if err == nil {
			f.SetColWidth(exportSheet, "C", last, 12)
		}
	}

	filename := fmt.Sprintf("Saturday_Schedule_%d.xlsx", time.Now().Year())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(w); err != nil {
		log.Printf("write spreadsheet: %v", err)
	}
}
