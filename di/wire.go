//go:build wireinject
// +build wireinject

package di

import (
	"lodge/config"
	"lodge/infras/jwt"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/infras/redis"
	"lodge/infras/s3"
	"lodge/permissions"
	"lodge/shared/cache"
	"lodge/transport/http"
	"lodge/transport/http/middleware"
	"lodge/transport/http/router"

	"github.com/google/wire"

	bookingRepository "lodge/internal/domains/booking/repository"
	bookingService "lodge/internal/domains/booking/service"
	dashboardService "lodge/internal/domains/dashboard/service"
	exportService "lodge/internal/domains/export/service"
	guestRepository "lodge/internal/domains/guest/repository"
	guestService "lodge/internal/domains/guest/service"
	roomRepository "lodge/internal/domains/room/repository"
	roomService "lodge/internal/domains/room/service"

	bookingHandler "lodge/internal/handlers/booking"
	dashboardHandler "lodge/internal/handlers/dashboard"
	exportHandler "lodge/internal/handlers/export"
	guestHandler "lodge/internal/handlers/guest"
	roomHandler "lodge/internal/handlers/room"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var guestDomain = wire.NewSet(
	guestRepository.New,
	guestService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var exportDomain = wire.NewSet(
	exportService.New,
)

var dashboardDomain = wire.NewSet(
	dashboardService.New,
)

var domains = wire.NewSet(
	roomDomain,
	guestDomain,
	bookingDomain,
	exportDomain,
	dashboardDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	guestHandler.New,
	bookingHandler.New,
	exportHandler.New,
	dashboardHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
