package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shiftrota/database"
	"shiftrota/fuzzy"
	"shiftrota/models"
	"shiftrota/rota"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	svc := rota.NewService(database.NewStore(db), fuzzy.NewMatcher()).
		WithNow(func() time.Time { return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) })

	roster := NewRosterHandler(db, svc)
	schedule := NewScheduleHandler(db, svc)

	router := chi.NewRouter()
	router.Post("/departments", roster.CreateDepartment)
	router.Get("/departments", roster.ListDepartments)
	router.Put("/departments/{id}", roster.RenameDepartment)
	router.Post("/employees", roster.CreateEmployee)
	router.Get("/employees", roster.ListEmployees)
	router.Put("/employees/{id}", roster.RenameEmployee)
	router.Post("/employees/add_by_name", roster.CreateEmployeeByName)
	router.Post("/employees/remove_by_name", roster.RemoveEmployeeByName)
	router.Post("/holidays", roster.CreateHoliday)
	router.Get("/holidays", roster.ListHolidays)
	router.Post("/schedule/generate", schedule.Generate)
	router.Get("/schedule", schedule.List)
	router.Delete("/schedule", schedule.Delete)
	router.Post("/swap", schedule.Swap)
	router.Post("/schedule/import", schedule.ImportCSV)
	router.Get("/schedule/export", schedule.ExportXLSX)
	return db, router
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestCreateDepartment(t *testing.T) {
	_, router := setupTest(t)

	rec := doJSON(t, router, http.MethodPost, "/departments", map[string]string{"name": "CSR"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	decodeBody(t, rec, &resp)
	assert.Equal(t, "CSR", resp["name"])
}

func TestCreateDepartmentDuplicateName(t *testing.T) {
	_, router := setupTest(t)

	rec := doJSON(t, router, http.MethodPost, "/departments", map[string]string{"name": "CSR"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/departments", map[string]string{"name": "csr"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateDepartmentMissingName(t *testing.T) {
	_, router := setupTest(t)

	rec := doJSON(t, router, http.MethodPost, "/departments", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenameDepartment(t *testing.T) {
	db, router := setupTest(t)
	dept := models.Department{Name: "Auto"}
	require.NoError(t, db.Create(&dept).Error)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/departments/%d", dept.ID),
		map[string]string{"name": "Auto Shop"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Department
	require.NoError(t, db.First(&got, dept.ID).Error)
	assert.Equal(t, "Auto Shop", got.Name)
}

func TestRenameDepartmentNotFound(t *testing.T) {
	_, router := setupTest(t)

	rec := doJSON(t, router, http.MethodPut, "/departments/99", map[string]string{"name": "Auto"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEmployeeByDepartmentName(t *testing.T) {
	db, router := setupTest(t)
	dept := models.Department{Name: "CSR"}
	require.NoError(t, db.Create(&dept).Error)

	rec := doJSON(t, router, http.MethodPost, "/employees/add_by_name",
		map[string]any{"name": "Ann", "department_name": "csr"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var emp models.Employee
	require.NoError(t, db.First(&emp, "name = ?", "Ann").Error)
	assert.Equal(t, dept.ID, emp.DepartmentID)
	assert.Nil(t, emp.GroupNum)
}

func TestCreateEmployeeGroupNumOnlyForGroupRoster(t *testing.T) {
	db, router := setupTest(t)
	csr := models.Department{Name: rota.DeptCSR}
	specOps := models.Department{Name: rota.DeptSpecOps}
	require.NoError(t, db.Create(&csr).Error)
	require.NoError(t, db.Create(&specOps).Error)

	rec := doJSON(t, router, http.MethodPost, "/employees",
		map[string]any{"name": "Ann", "department_id": csr.ID, "group_num": 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/employees",
		map[string]any{"name": "Ben", "department_id": specOps.ID, "group_num": 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	var ann, ben models.Employee
	require.NoError(t, db.First(&ann, "name = ?", "Ann").Error)
	require.NoError(t, db.First(&ben, "name = ?", "Ben").Error)
	assert.Nil(t, ann.GroupNum)
	require.NotNil(t, ben.GroupNum)
	assert.Equal(t, 2, *ben.GroupNum)
}

func TestCreateEmployeeGroupNumOutOfRange(t *testing.T) {
	db, router := setupTest(t)
	dept := models.Department{Name: rota.DeptSpecOps}
	require.NoError(t, db.Create(&dept).Error)

	rec := doJSON(t, router, http.MethodPost, "/employees",
		map[string]any{"name": "Ann", "department_id": dept.ID, "group_num": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEmployeeUnknownDepartment(t *testing.T) {
	_, router := setupTest(t)

	rec := doJSON(t, router, http.MethodPost, "/employees/add_by_name",
		map[string]any{"name": "Ann", "department_name": "Nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveEmployeeByNameDeletesSchedules(t *testing.T) {
	db, router := setupTest(t)
	dept := models.Department{Name: "CSR"}
	require.NoError(t, db.Create(&dept).Error)
	emp := models.Employee{Name: "Ann", DepartmentID: dept.ID}
	require.NoError(t, db.Create(&emp).Error)
	row := models.Schedule{
		Date:         time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC),
		DepartmentID: dept.ID,
		EmployeeID:   emp.ID,
	}
	require.NoError(t, db.Create(&row).Error)

	rec := doJSON(t, router, http.MethodPost, "/employees/remove_by_name",
		map[string]string{"name": "ann"})
	require.Equal(t, http.StatusOK, rec.Code)

	var empCount, rowCount int64
	require.NoError(t, db.Model(&models.Employee{}).Count(&empCount).Error)
	require.NoError(t, db.Model(&models.Schedule{}).Count(&rowCount).Error)
	assert.Zero(t, empCount)
	assert.Zero(t, rowCount)
}

func TestGenerateAndListSchedule(t *testing.T) {
	db, router := setupTest(t)
	dept := models.Department{Name: "CSR"}
	require.NoError(t, db.Create(&dept).Error)
	for _, name := range []string{"Ann", "Ben"} {
		require.NoError(t, db.Create(&models.Employee{Name: name, DepartmentID: dept.ID}).Error)
	}

	rec := doJSON(t, router, http.MethodPost, "/schedule/generate", map[string]int{"year": 2025})
	require.Equal(t, http.StatusOK, rec.Code)

	var report rota.Report
	decodeBody(t, rec, &report)
	assert.Equal(t, 52, report.Inserted)

	rec = doJSON(t, router, http.MethodGet, "/schedule", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	decodeBody(t, rec, &rows)
	require.Len(t, rows, 52)
	assert.Equal(t, "2025-01-04", rows[0]["date"])
	assert.Equal(t, "CSR", rows[0]["department"])
	assert.Equal(t, "Ann", rows[0]["employee"])
}

func TestDeleteScheduleByYear(t *testing.T) {
	db, router := setupTest(t)
	dept := models.Department{Name: "CSR"}
	require.NoError(t, db.Create(&dept).Error)
	emp := models.Employee{Name: "Ann", DepartmentID: dept.ID}
	require.NoError(t, db.Create(&emp).Error)
	for _, d := range []time.Time{
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC),
	} {
		require.NoError(t, db.Create(&models.Schedule{Date: d, DepartmentID: dept.ID, EmployeeID: emp.ID}).Error)
	}

	rec := doJSON(t, router, http.MethodDelete, "/schedule", map[string]int{"year": 2025})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeBody(t, rec, &resp)
	assert.EqualValues(t, 1, resp["deleted"])

	var count int64
	require.NoError(t, db.Model(&models.Schedule{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteScheduleWithoutScope(t *testing.T) {
	_, router := setupTest(t)

	rec := doJSON(t, router, http.MethodDelete, "/schedule", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHolidayRemovesAssignments(t *testing.T) {
	db, router := setupTest(t)
	dept := models.Department{Name: "CSR"}
	require.NoError(t, db.Create(&dept).Error)
	emp := models.Employee{Name: "Ann", DepartmentID: dept.ID}
	require.NoError(t, db.Create(&emp).Error)
	d := time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Schedule{Date: d, DepartmentID: dept.ID, EmployeeID: emp.ID}).Error)

	rec := doJSON(t, router, http.MethodPost, "/holidays",
		map[string]string{"date": "2025-07-05", "note": "holiday weekend"})
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Schedule{}).Count(&count).Error)
	assert.Zero(t, count)

	rec = doJSON(t, router, http.MethodGet, "/holidays", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hols []map[string]any
	decodeBody(t, rec, &hols)
	require.Len(t, hols, 1)
	assert.Equal(t, "2025-07-05", hols[0]["date"])
	assert.Equal(t, "holiday weekend", hols[0]["note"])
}

func TestCreateHolidayBadDate(t *testing.T) {
	_, router := setupTest(t)

	rec := doJSON(t, router, http.MethodPost, "/holidays", map[string]string{"date": "not-a-date"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSwapEndpoint(t *testing.T) {
	db, router := setupTest(t)
	dept := models.Department{Name: "CSR"}
	require.NoError(t, db.Create(&dept).Error)
	ann := models.Employee{Name: "Ann", DepartmentID: dept.ID}
	ben := models.Employee{Name: "Ben", DepartmentID: dept.ID}
	require.NoError(t, db.Create(&ann).Error)
	require.NoError(t, db.Create(&ben).Error)
	d1 := time.Date(2025, time.October, 11, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, time.October, 25, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Schedule{Date: d1, DepartmentID: dept.ID, EmployeeID: ann.ID}).Error)
	require.NoError(t, db.Create(&models.Schedule{Date: d2, DepartmentID: dept.ID, EmployeeID: ben.ID}).Error)

	rec := doJSON(t, router, http.MethodPost, "/swap", map[string]string{
		"employee1":     "Ann",
		"employee2":     "Ben",
		"original_date": "2025-10-11",
		"new_date":      "2025-10-25",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.Schedule
	require.NoError(t, db.Order("date").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, ben.ID, rows[0].EmployeeID)
	assert.Equal(t, ann.ID, rows[1].EmployeeID)
	assert.True(t, rows[0].Override)
	assert.True(t, rows[1].Override)
}

func TestSwapEndpointNoAssignment(t *testing.T) {
	_, router := setupTest(t)

	rec := doJSON(t, router, http.MethodPost, "/swap", map[string]string{
		"employee1":     "Ann",
		"employee2":     "Ben",
		"original_date": "2025-10-11",
		"new_date":      "2025-10-25",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportCSV(t *testing.T) {
	db, router := setupTest(t)
	dept := models.Department{Name: "CSR"}
	require.NoError(t, db.Create(&dept).Error)
	emp := models.Employee{Name: "Ann", DepartmentID: dept.ID}
	require.NoError(t, db.Create(&emp).Error)

	csv := "date,department,employee\n2025-06-07,CSR,Ann\n2025-06-14,CSR,Nobody\n"
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "schedule.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/schedule/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeBody(t, rec, &resp)
	assert.Equal(t, "imported 1 rows", resp["message"])
	skipped, _ := resp["skipped"].([]any)
	assert.Len(t, skipped, 1)

	var rows []models.Schedule
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, emp.ID, rows[0].EmployeeID)
	assert.True(t, rows[0].Override)
}

func TestExportXLSX(t *testing.T) {
	db, router := setupTest(t)
	dept := models.Department{Name: "CSR"}
	require.NoError(t, db.Create(&dept).Error)
	emp := models.Employee{Name: "Ann", DepartmentID: dept.ID}
	require.NoError(t, db.Create(&emp).Error)
	d := time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Schedule{Date: d, DepartmentID: dept.ID, EmployeeID: emp.ID}).Error)

	req := httptest.NewRequest(http.MethodGet, "/schedule/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}
