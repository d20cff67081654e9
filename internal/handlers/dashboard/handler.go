package dashboard

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/dashboard/service"
	"lodge/shared/constant"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Dashboard
	otel    otel.Otel
}

func New(service service.Dashboard, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/dashboard", func(routerGroup chi.Router) {
		routerGroup.Get("/stats", handler.GetStats)
		routerGroup.Get("/departures", handler.GetDepartures)
		routerGroup.Get("/revenue", handler.GetMonthlyRevenue)
	})
}

// GetStats retrieves the front-desk snapshot for today.
// @Summary Get dashboard statistics
// @Description Retrieve room counts, occupancy, today's guests and collection, and the weekend rush flag.
// @Tags Dashboard
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.DashboardStatsResponse] "Dashboard statistics"
// @Failure 500 {object} response.Error
// @Router /v1/dashboard/stats [get]
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	stats, err := handler.service.Stats(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get dashboard stats")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Dashboard stats retrieved successfully")

	response.WithJSON(w, http.StatusOK, stats)
}

// GetDepartures retrieves overdue and upcoming departures.
// @Summary Get today's departures
// @Description Retrieve checked-in bookings past their expected checkout and the ones due later today.
// @Tags Dashboard
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.DeparturesResponse] "Departure lists"
// @Failure 500 {object} response.Error
// @Router /v1/dashboard/departures [get]
func (handler *Handler) GetDepartures(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDepartures")
	defer scope.End()

	departures, err := handler.service.Departures(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get departures")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Departures retrieved successfully")

	response.WithJSON(w, http.StatusOK, departures)
}

// GetMonthlyRevenue retrieves the revenue report for a month.
// @Summary Get the monthly revenue report
// @Description Break a month's revenue down by price component, day, room type and floor.
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param month query string true "Month in YYYY-MM format"
// @Success 200 {object} response.Data[dto.RevenueReportResponse] "Revenue report"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/dashboard/revenue [get]
func (handler *Handler) GetMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMonthlyRevenue")
	defer scope.End()

	revenue, err := handler.service.MonthlyRevenue(ctx, r.URL.Query().Get("month"))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get monthly revenue")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Monthly revenue retrieved successfully")

	response.WithJSON(w, http.StatusOK, revenue)
}
