package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/config"
	appHTTP "github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/handler/http"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/database"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/events"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/reports"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/repository/postgresql"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/service/export"
	importService "github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/service/payrollimport"
	reportingService "github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/service/reporting"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	rowRepo := postgresql.NewReportRowRepository(db)
	targetRepo := postgresql.NewTargetRepository(db)
	importRepo := postgresql.NewPayrollImportRepository(db)

	hub := events.NewHub()

	registry := reportingService.NewRegistry()
	builder := export.NewBuilder(registry, export.Theme{})
	reports.RegisterLayouts(builder)

	reportSvc, err := reportingService.NewReportService(registry, reports.All(), rowRepo, targetRepo, builder)
	if err != nil {
		log.Fatal("Failed to build report service:", err)
	}
	importSvc := importService.NewImportService(importRepo, hub)

	reportHandler := appHTTP.NewReportHandler(reportSvc)
	importHandler := appHTTP.NewPayrollImportHandler(importSvc, hub)
	eventsHandler := appHTTP.NewEventsHandler(hub)

	router := appHTTP.NewRouter(cfg, reportHandler, importHandler, eventsHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
