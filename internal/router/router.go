// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// scolaris API. Everything except the health check lives under /api and
// sits behind the session, CSRF and 2FA middleware stack.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"scolaris/internal/handlers"
	"scolaris/internal/middleware"
	"scolaris/internal/session"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth      *handlers.Auth
	Schools   *handlers.Schools
	Classes   *handlers.Classes
	Students  *handlers.Students
	Templates *handlers.Templates
	Cards     *handlers.Cards
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. secure marks the CSRF cookie HTTPS-only and
// should match the session store's cookie setting.
func New(sessionStore *session.Store, h Handlers, secure bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check. No auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secure))

		// Login is rate limited per client IP to slow credential stuffing.
		loginLimiter := middleware.NewRateLimiter(10, time.Minute)
		r.With(loginLimiter.Middleware).Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		// 2FA enrollment needs a session but not a completed 2FA check,
		// since that is exactly what it establishes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/2fa/setup", h.Auth.TwoFASetup)
			r.Post("/auth/2fa/verify", h.Auth.TwoFAVerify)
		})

		// Authenticated and 2FA-verified area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Schools. Mutations are admin only; staff can read.
			r.Route("/schools", func(r chi.Router) {
				r.Get("/", h.Schools.List)
				r.Get("/{id}", h.Schools.Get)
				r.Get("/{schoolID}/classes", h.Classes.ListBySchool)
				r.Get("/{schoolID}/templates", h.Templates.ListBySchool)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Schools.Create)
					r.Put("/{id}", h.Schools.Update)
					r.Post("/{id}/logo", h.Schools.UploadLogo)
				})
			})

			// Classes
			r.Route("/classes", func(r chi.Router) {
				r.Post("/", h.Classes.Create)
				r.Put("/{id}", h.Classes.Update)
				r.Delete("/{id}", h.Classes.Delete)
				r.Get("/{classID}/students", h.Students.ListByClass)
			})

			// Students
			r.Route("/students", func(r chi.Router) {
				r.Post("/", h.Students.Create)
				r.Get("/{id}", h.Students.Get)
				r.Put("/{id}", h.Students.Update)
				r.Delete("/{id}", h.Students.Delete)
				r.Post("/{id}/photo", h.Students.UploadPhoto)
			})

			// Card templates
			r.Route("/templates", func(r chi.Router) {
				r.Post("/", h.Templates.Create)
				r.Post("/preview", h.Templates.Preview)
				r.Get("/{id}", h.Templates.Get)
				r.Put("/{id}", h.Templates.Update)
				r.Delete("/{id}", h.Templates.Delete)
				r.Post("/{id}/activate", h.Templates.Activate)
			})

			// Card rendering
			r.Route("/cards", func(r chi.Router) {
				r.Get("/students/{id}", h.Cards.Student)
				r.Get("/classes/{classID}", h.Cards.Class)
				r.Post("/selected", h.Cards.Selected)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
