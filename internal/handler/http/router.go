package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/salary-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	RateSchedule   RateScheduleHandler
	Employee       EmployeeHandler
	Employment     EmploymentHandler
	Company        CompanyHandler
	SalaryTemplate SalaryTemplateHandler
	Payslip        PayslipHandler
}

type RouterOptions struct {
	Env            string
	Production     bool
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(!opts.Production)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "salary-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Tokens are issued by the auth service; this service only verifies them.
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Route("/rate-schedules", func(r chi.Router) {
			r.Get("/", h.RateSchedule.List)
			r.Post("/", h.RateSchedule.Create)
			r.Get("/resolve", h.RateSchedule.Resolve)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.RateSchedule.Get)
				r.Patch("/", h.RateSchedule.Update)
				r.Delete("/", h.RateSchedule.Delete)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", h.Employee.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Employee.GetEmployee)
				r.Patch("/", h.Employee.UpdateEmployee)

				r.Route("/employments", func(r chi.Router) {
					r.Get("/", h.Employment.History)
					r.Post("/", h.Employment.Assign)
					r.Get("/current", h.Employment.Current)
				})
				r.Post("/payslips", h.Payslip.Generate)
			})
		})

		r.Route("/employments/{id}", func(r chi.Router) {
			r.Get("/", h.Employment.Get)
			r.Patch("/", h.Employment.Update)
			r.Post("/terminate", h.Employment.Terminate)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.Company.List)
			r.Post("/", h.Company.Create)
			r.Route("/{companyID}", func(r chi.Router) {
				r.Get("/", h.Company.GetByID)
				r.Patch("/", h.Company.Update)
				r.Post("/payslips", h.Payslip.GenerateForCompany)

				r.Route("/salary-template", func(r chi.Router) {
					r.Get("/", h.SalaryTemplate.Get)
					r.Post("/reset", h.SalaryTemplate.Reset)
					r.Get("/fields", h.SalaryTemplate.ListEnabledFields)
					r.Route("/fields/{key}", func(r chi.Router) {
						r.Put("/enabled", h.SalaryTemplate.Toggle)
						r.Put("/default", h.SalaryTemplate.SetDefaultValue)
						r.Put("/rule", h.SalaryTemplate.SetValidationRule)
					})
					r.Post("/custom-fields", h.SalaryTemplate.AddCustomField)
					r.Route("/custom-fields/{key}", func(r chi.Router) {
						r.Patch("/", h.SalaryTemplate.UpdateCustomField)
						r.Delete("/", h.SalaryTemplate.RemoveCustomField)
					})
				})
			})
		})
	})
	return r
}
