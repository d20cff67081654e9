package router

import (
	"lodge/internal/handlers/booking"
	"lodge/internal/handlers/dashboard"
	"lodge/internal/handlers/export"
	"lodge/internal/handlers/guest"
	"lodge/internal/handlers/room"
	"lodge/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Room      room.Handler
	Guest     guest.Handler
	Booking   booking.Handler
	Export    export.Handler
	Dashboard dashboard.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AppMiddleware  middleware.AppMiddleware
	AuthMiddleware middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.AppMiddleware.Tracing)
	router.Use(r.AppMiddleware.RateLimit())

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthMiddleware.APIKey)
		routerGroup.Use(r.AuthMiddleware.Auth)
		routerGroup.Use(r.AuthMiddleware.RBAC)

		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Guest.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Export.Router(routerGroup)
		r.DomainHandlers.Dashboard.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, authMiddleware middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AppMiddleware:  appMiddleware,
		AuthMiddleware: authMiddleware,
	}
}
