package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/barbershop-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/barbershop-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by NewRouter
type Handlers struct {
	Employee   EmployeeHandler
	Commission CommissionHandler
	Payroll    PayrollHandler
	Attendance AttendanceHandler
	Dashboard  DashboardHandler
	Report     ReportHandler
	Event      EventHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, corsOrigins []string, logger *slog.Logger, logLevel slog.Level) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "X-Row-Count"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  logLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// SSE authenticates with a short-lived token in the query string
		r.Get("/events/stream", h.Event.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/events/token", h.Event.GetSSEToken)

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/", h.Employee.ListEmployees)
				r.With(middleware.RequirePermission(user.PermissionEmployeeManage)).Post("/", h.Employee.CreateEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/", h.Employee.GetEmployee)
					r.Post("/verify-pin", h.Employee.VerifyPIN)

					// Manager only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
						r.Put("/", h.Employee.UpdateEmployee)
						r.Delete("/", h.Employee.DeleteEmployee)
					})
				})
			})

			r.Route("/commissions", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionCommissionView))
					r.Get("/line-items", h.Commission.ListLineItems)
					r.Get("/rules", h.Commission.ListRules)
					r.Get("/rules/{employeeID}/{serviceID}", h.Commission.GetRule)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionCommissionManage))
					r.Put("/line-items/{id}", h.Commission.SetCommission)
					r.Post("/batch", h.Commission.ApplyBatch)
					r.Delete("/rules/{id}", h.Commission.DeleteRule)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/summary", h.Payroll.GetPayrollSummary)
					r.Get("/payslips/{employeeID}", h.Payroll.GetPayslip)
					r.Get("/points/{employeeID}", h.Payroll.ListPoints)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/points/{employeeID}", h.Payroll.AddPoint)
					r.Delete("/points/entry/{id}", h.Payroll.DeletePoint)
				})

				r.With(middleware.RequirePermission(user.PermissionReportsExport)).Get("/summary/export", h.Payroll.ExportPayrollSummary)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequireManager).Post("/recount", h.Attendance.RecountAbsences)

				r.Route("/{employeeID}", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceRecord))
						r.Post("/check-in", h.Attendance.CheckIn)
						r.Post("/check-out", h.Attendance.CheckOut)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceView))
						r.Get("/records", h.Attendance.ListRecords)
						r.Get("/summary", h.Attendance.GetSummary)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
						r.Post("/absent", h.Attendance.MarkAbsent)
						r.Put("/quota", h.Attendance.UpdateQuota)
					})
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionDashboardView))
				r.Get("/overview", h.Dashboard.GetOverview)
				r.Get("/live", h.Dashboard.GetLiveOverview)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsExport))
				r.Get("/line-items.csv", h.Report.ExportLineItemsCSV)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "route not found", http.StatusNotFound)
	})
	return r
}
