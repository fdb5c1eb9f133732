package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/salary-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-engine-go/internal/repository/postgresql"
	companyService "github.com/cmlabs-hris/salary-engine-go/internal/service/company"
	employeeService "github.com/cmlabs-hris/salary-engine-go/internal/service/employee"
	employmentService "github.com/cmlabs-hris/salary-engine-go/internal/service/employment"
	payslipService "github.com/cmlabs-hris/salary-engine-go/internal/service/payslip"
	rateScheduleService "github.com/cmlabs-hris/salary-engine-go/internal/service/rateschedule"
	templateService "github.com/cmlabs-hris/salary-engine-go/internal/service/salarytemplate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tx := postgresql.NewTransactor(db)

	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	employmentRepo := postgresql.NewEmploymentRepository(db)
	rateScheduleRepo := postgresql.NewRateScheduleRepository(db)
	templateRepo := postgresql.NewSalaryTemplateRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	rateScheduleSvc := rateScheduleService.NewRateScheduleService(tx, rateScheduleRepo)
	companySvc := companyService.NewCompanyService(tx, companyRepo, templateRepo)
	employeeSvc := employeeService.NewEmployeeService(tx, employeeRepo)
	employmentSvc := employmentService.NewEmploymentService(tx, employmentRepo, employeeRepo, companyRepo)
	templateSvc := templateService.NewTemplateService(tx, templateRepo)
	payslipSvc := payslipService.NewPayslipService(
		attendanceRepo,
		employeeRepo,
		employmentRepo,
		companyRepo,
		employmentSvc,
		templateSvc,
		rateScheduleSvc,
		cfg.Payslip.Workers,
	)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		RateSchedule:   appHTTP.NewRateScheduleHandler(rateScheduleSvc),
		Employee:       appHTTP.NewEmployeeHandler(employeeSvc),
		Employment:     appHTTP.NewEmploymentHandler(employmentSvc),
		Company:        appHTTP.NewCompanyHandler(companySvc),
		SalaryTemplate: appHTTP.NewSalaryTemplateHandler(templateSvc),
		Payslip:        appHTTP.NewPayslipHandler(payslipSvc),
	}, appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		Production:     cfg.IsProduction(),
		LogLevel:       level,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
