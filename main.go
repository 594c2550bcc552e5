package main

import (
	"log"
	"net/http"

	"shiftrota/config"
	"shiftrota/database"
	"shiftrota/fuzzy"
	"shiftrota/handlers"
	"shiftrota/rota"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Wire the rotation core against the store
	store := database.NewStore(database.GetDB())
	svc := rota.NewService(store, fuzzy.NewMatcher())

	// Initialize handlers
	rosterHandler := handlers.NewRosterHandler(database.GetDB(), svc)
	scheduleHandler := handlers.NewScheduleHandler(database.GetDB(), svc)

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Saturday shift scheduler is running"))
	})

	// Departments
	router.Post("/departments", rosterHandler.CreateDepartment)
	router.Get("/departments", rosterHandler.ListDepartments)
	router.Put("/departments/{id}", rosterHandler.RenameDepartment)

	// Employees
	router.Post("/employees", rosterHandler.CreateEmployee)
	router.Get("/employees", rosterHandler.ListEmployees)
	router.Put("/employees/{id}", rosterHandler.RenameEmployee)
	router.Post("/employees/add_by_name", rosterHandler.CreateEmployeeByName)
	router.Post("/employees/remove_by_name", rosterHandler.RemoveEmployeeByName)

	// Holidays
	router.Post("/holidays", rosterHandler.CreateHoliday)
	router.Get("/holidays", rosterHandler.ListHolidays)

	// Schedule
	router.Post("/schedule/generate", scheduleHandler.Generate)
	router.Get("/schedule", scheduleHandler.List)
	router.Delete("/schedule", scheduleHandler.Delete)
	router.Post("/swap", scheduleHandler.Swap)
	router.Post("/schedule/import", scheduleHandler.ImportCSV)
	router.Get("/schedule/export", scheduleHandler.ExportXLSX)

	log.Printf("Server starting on port %s", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}
