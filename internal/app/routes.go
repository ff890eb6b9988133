package app

import (
	"net/http"

	"github.com/getmsert/logmailer/internal/handler"
	"github.com/getmsert/logmailer/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)

	// Health check
	r.Get("/api/health", handler.Health(app.mailer))

	// Log intake
	msertHandler := handler.NewMsertHandler(
		app.logger,
		app.mailer,
		app.config.MailFrom,
		app.config.MailRecipients,
		app.config.MaxUploadBytes(),
	)
	r.Group(func(r chi.Router) {
		if app.config.RateLimitPerMinute > 0 {
			r.Use(middleware.PerMinute(app.config.RateLimitPerMinute))
		}
		r.Post("/msert", msertHandler.Upload)
	})

	return r
}
