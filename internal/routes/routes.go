package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/naufalaufa/zipal-app/configs"
	"github.com/naufalaufa/zipal-app/internal/handlers"
	appmw "github.com/naufalaufa/zipal-app/internal/middleware"
)

func NewRoutes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Zipal backend is running"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})

	r.Post("/login", handlers.LoginHandler)
	r.Post("/auth/refresh", handlers.RefreshHandler)

	r.Group(func(r chi.Router) {
		r.Use(appmw.Authenticated)

		r.Get("/auth/me", handlers.MeHandler)
		r.Put("/profile", handlers.UpdateProfileHandler)

		r.Get("/summary", handlers.SummaryHandler)
		r.Get("/history", handlers.HistoryHandler)
		r.Get("/investments", handlers.InvestmentsHandler)

		r.Post("/transaction", handlers.CreateTransactionHandler)
		r.Get("/transaction/last/{username}", handlers.LastTransactionHandler)
		r.Put("/transaction/{id}", handlers.UpdateTransactionHandler)
		r.Delete("/transaction/{id}", handlers.DeleteTransactionHandler)
		r.Delete("/transaction/cancel-last/{username}", handlers.CancelLastTransactionHandler)

		r.Get("/goals", handlers.ListGoalsHandler)

		r.Get("/agreement/status", handlers.AgreementStatusHandler)
		r.Post("/agreement/sign", handlers.SignAgreementHandler)

		// goal mutation and admin surfaces re-check the persisted role
		r.Group(func(r chi.Router) {
			r.Use(appmw.AdminOnly)

			r.Post("/goals", handlers.CreateGoalHandler)
			r.Put("/goals/{id}", handlers.UpdateGoalHandler)
			r.Delete("/goals/{id}", handlers.DeleteGoalHandler)

			r.Get("/admin/activity-logs", handlers.ActivityLogsHandler)
			r.Post("/admin/sync-test-data", handlers.SyncTestDataHandler)
		})
	})

	uploads := configs.AppConfig.Uploads
	fileServer := http.StripPrefix(uploads.PublicPath+"/", http.FileServer(http.Dir(uploads.Dir)))
	r.Get(uploads.PublicPath+"/*", fileServer.ServeHTTP)

	return r
}
