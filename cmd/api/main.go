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

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/config"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/barbershop-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/changefeed"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/sse"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/repository/memory"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/attendance"
	commissionService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/commission"
	dashboardService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/barbershop-payroll-go/internal/service/report"
	"github.com/go-chi/httplog/v3"
)

// stores is the set of repository adapters selected by STORE_DRIVER
type stores struct {
	tx             database.Transactor
	employeeRepo   employee.EmployeeRepository
	ruleRepo       commission.RuleRepository
	lineItemRepo   commission.LineItemRepository
	pointRepo      payroll.PointRepository
	attendanceRepo attendance.AttendanceRepository
	close          func()
}

func openPostgres(ctx context.Context, cfg *config.Config, feed changefeed.Feed) (*stores, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := postgresql.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	listener := changefeed.NewPGListener(db, feed, "")
	go listener.RunWithRetry(ctx, cfg.Refresh.RetryBackoff)

	return &stores{
		tx:             postgresql.NewTransactor(db),
		employeeRepo:   postgresql.NewEmployeeRepository(db),
		ruleRepo:       postgresql.NewCommissionRuleRepository(db),
		lineItemRepo:   postgresql.NewLineItemRepository(db),
		pointRepo:      postgresql.NewPointEntryRepository(db),
		attendanceRepo: postgresql.NewAttendanceRepository(db),
		close:          db.Close,
	}, nil
}

func openMemory(ctx context.Context, feed changefeed.Feed) (*stores, error) {
	store := memory.NewStore(feed)
	s := &stores{
		tx:             store,
		employeeRepo:   memory.NewEmployeeRepository(store),
		ruleRepo:       memory.NewRuleRepository(store),
		lineItemRepo:   memory.NewLineItemRepository(store),
		pointRepo:      memory.NewPointRepository(store),
		attendanceRepo: memory.NewAttendanceRepository(store),
		close:          func() {},
	}

	ids, err := fixtures.SeedDemoShop(ctx, fixtures.Repositories{
		Employees:  s.employeeRepo,
		LineItems:  s.lineItemRepo,
		Points:     s.pointRepo,
		Attendance: s.attendanceRepo,
	}, time.Now())
	if err != nil {
		return nil, fmt.Errorf("seed demo shop: %w", err)
	}
	slog.Info("Seeded in-memory demo shop", "employees", len(ids.EmployeeIDs), "line_items", len(ids.LineItemIDs))
	return s, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "barbershop-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := sse.NewHub()
	feed := changefeed.NewHubFeed(hub)

	var s *stores
	switch cfg.Store.Driver {
	case "memory":
		s, err = openMemory(ctx, feed)
	default:
		s, err = openPostgres(ctx, cfg, feed)
	}
	if err != nil {
		slog.Error("Failed to open record store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer s.close()

	grace := time.Duration(cfg.Attendance.LateGraceMinutes) * time.Minute

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	employeeSvc := employeeService.NewEmployeeService(s.employeeRepo, cfg.Attendance.DefaultAbsenceQuota)
	commissionSvc := commissionService.NewCommissionService(s.tx, s.lineItemRepo, s.ruleRepo)
	payrollSvc := payrollService.NewPayrollService(s.employeeRepo, s.lineItemRepo, s.pointRepo)
	attendanceSvc := attendanceService.NewAttendanceService(s.tx, s.attendanceRepo, s.employeeRepo, grace)
	dashboardSvc := dashboardService.NewDashboardService(s.employeeRepo, s.lineItemRepo, s.pointRepo, s.attendanceRepo, grace)
	reportSvc := reportService.NewReportService(s.lineItemRepo)

	live := dashboardService.NewLive(dashboardSvc, feed, dashboard.OverviewRequest{}, dashboardService.LiveConfig{
		Debounce:     cfg.Refresh.Debounce,
		MaxWait:      cfg.Refresh.MaxWait,
		RetryBackoff: cfg.Refresh.RetryBackoff,
		MaxRetries:   cfg.Refresh.MaxRetries,
	}, func(resp *dashboard.OverviewResponse) {
		hub.Publish(dashboard.LiveTopic, sse.Event{Event: "overview", Data: resp})
	})
	go func() {
		if err := live.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Live dashboard stopped", "error", err)
		}
	}()

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(attendanceSvc, cfg.Attendance.RecountInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Commission: appHTTP.NewCommissionHandler(commissionSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc, live),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Event:      appHTTP.NewEventHandler(hub, JWTService),
	}, cfg.App.CORSOrigins, logger, cfg.SlogLevel())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
