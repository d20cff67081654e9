package guest

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/guest/model"
	"lodge/internal/domains/guest/service"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Guest
	otel    otel.Otel
}

func New(service service.Guest, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/guests", func(routerGroup chi.Router) {
		routerGroup.Get("/lookup", handler.LookupGuest)
		routerGroup.Get("/", handler.GetGuests)
	})
}

// LookupGuest resolves a phone number against earlier stays.
// @Summary Look up a returning guest
// @Description Resolve a phone number to the guest's latest recorded stay. Always returns 200, a miss comes back with guest_exists false.
// @Tags Guest
// @Accept json
// @Produce json
// @Param phone query string true "Phone number"
// @Success 200 {object} response.Data[dto.GuestLookupResponse] "Lookup result"
// @Failure 500 {object} response.Error
// @Router /v1/guests/lookup [get]
func (handler *Handler) LookupGuest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".LookupGuest")
	defer scope.End()

	phone := r.URL.Query().Get("phone")

	result, err := handler.service.Lookup(ctx, phone)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to look up guest")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guest lookup completed")

	response.WithJSON(w, http.StatusOK, result)
}

// GetGuests retrieves guest records with optional filters.
// @Summary Get all guests
// @Description Retrieve guest records with optional name and phone filters.
// @Tags Guest
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param full_name query string false "Filter by name"
// @Param phone_number query string false "Filter by phone number"
// @Success 200 {object} response.Data[dto.GetGuestsResponse] "List of guests"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guests [get]
func (handler *Handler) GetGuests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldFullName,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldFullName),
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldPhoneNumber,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldPhoneNumber),
				Table:    model.TableName,
			},
		},
	}

	guests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guests retrieved successfully")

	response.WithJSON(w, http.StatusOK, guests)
}
