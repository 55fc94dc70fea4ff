package handler

import (
	"net/http"

	"timekeeper/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService,
	projects *service.ProjectService, entries *service.TimeEntryService, db DBPinger) {

	authHandler := NewAuthHandler(auth)
	projectHandler := NewProjectHandler(projects)
	entryHandler := NewTimeEntryHandler(entries)
	healthHandler := NewHealthHandler(db)

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.HandleFunc("GET /healthz", healthHandler.HandleHealthz)

	mux.HandleFunc("POST /auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /auth/login", authHandler.HandleLogin)
	mux.Handle("POST /auth/logout", protected(authHandler.HandleLogout))
	mux.Handle("POST /auth/refresh", RequireRefresh(auth, http.HandlerFunc(authHandler.HandleRefresh)))
	mux.Handle("GET /auth/me", protected(authHandler.HandleMe))

	mux.Handle("GET /api/projects", protected(projectHandler.HandleList))
	mux.Handle("POST /api/projects", protected(projectHandler.HandleCreate))
	mux.Handle("GET /api/projects/{id}", protected(projectHandler.HandleGet))
	mux.Handle("PUT /api/projects/{id}", protected(projectHandler.HandleUpdate))
	mux.Handle("DELETE /api/projects/{id}", protected(projectHandler.HandleDelete))

	mux.Handle("GET /api/entries", protected(entryHandler.HandleList))
	mux.Handle("POST /api/entries", protected(entryHandler.HandleCreate))
	// Literal route; wins over the {id} pattern below.
	mux.Handle("GET /api/entries/summary", protected(entryHandler.HandleSummary))
	mux.Handle("GET /api/entries/{id}", protected(entryHandler.HandleGet))
	mux.Handle("PUT /api/entries/{id}", protected(entryHandler.HandleUpdate))
	mux.Handle("DELETE /api/entries/{id}", protected(entryHandler.HandleDelete))
}
