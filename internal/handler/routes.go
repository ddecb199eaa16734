package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/msomdec/finance-tracker/internal/service"
)

// Services bundles what the router needs to serve the API.
type Services struct {
	Auth         *service.AuthService
	Categories   *service.CategoryService
	Transactions *service.TransactionService
	Budgets      *service.BudgetService
	Summary      *service.SummaryService
	Resolver     *service.PrincipalResolver
	DB           Pinger
}

// RouterOptions carries the HTTP-level settings from configuration.
type RouterOptions struct {
	AllowedOrigins []string
	CookieSecure   bool
}

// NewRouter builds the API router. Everything under /api except the auth
// entry points requires an authenticated principal.
func NewRouter(svc Services, opts RouterOptions) http.Handler {
	authHandler := NewAuthHandler(svc.Auth, svc.Categories, opts.CookieSecure)
	categoryHandler := NewCategoryHandler(svc.Categories)
	transactionHandler := NewTransactionHandler(svc.Transactions)
	budgetHandler := NewBudgetHandler(svc.Budgets)
	summaryHandler := NewSummaryHandler(svc.Summary)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(SecurityHeaders)

	r.Get("/healthz", HandleHealthz)
	if svc.DB != nil {
		r.Get("/readyz", HandleReadyz(svc.DB))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(svc.Resolver))

			r.Get("/auth/me", authHandler.HandleMe)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.HandleList)
				r.Post("/", categoryHandler.HandleCreate)
				r.Get("/{id}", categoryHandler.HandleGet)
				r.Put("/{id}", categoryHandler.HandleUpdate)
				r.Delete("/{id}", categoryHandler.HandleDelete)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", transactionHandler.HandleList)
				r.Post("/", transactionHandler.HandleCreate)
				r.Get("/{id}", transactionHandler.HandleGet)
				r.Put("/{id}", transactionHandler.HandleUpdate)
				r.Delete("/{id}", transactionHandler.HandleDelete)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", budgetHandler.HandleList)
				r.Post("/", budgetHandler.HandleCreateOrUpdate)
				r.Get("/{id}", budgetHandler.HandleGet)
				r.Delete("/{id}", budgetHandler.HandleDelete)
			})

			r.Get("/summary", summaryHandler.HandleMonthly)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	return r
}
