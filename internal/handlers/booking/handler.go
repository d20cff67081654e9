package booking

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/service"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Post("/draft", handler.DraftBooking)
		routerGroup.Post("/{id}/checkout", handler.CheckoutBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/active", handler.GetActiveBookings)
		routerGroup.Get("/today", handler.GetTodayBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
	})
}

// CreateBooking checks a party in and occupies the room.
// @Summary Create a booking
// @Description Check a guest party in. The room price is snapshotted and the room flips to occupied in the same transaction.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} response.Data[dto.CreateBookingResponse] "Created booking"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	var req dto.CreateBookingRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, booking)
}

// DraftBooking scores a partially filled registration form.
// @Summary Score a booking draft
// @Description Evaluate an in-progress registration form and return its completion progress and whether it can be submitted.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.DraftBookingRequest true "Draft form"
// @Success 200 {object} response.Data[dto.DraftBookingResponse] "Draft evaluation"
// @Failure 400 {object} response.Error
// @Router /v1/bookings/draft [post]
func (handler *Handler) DraftBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DraftBooking")
	defer scope.End()

	var req dto.DraftBookingRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	draft := handler.service.Draft(ctx, req)

	scope.AddEvent("Booking draft evaluated")

	response.WithJSON(w, http.StatusOK, draft)
}

// CheckoutBooking settles a stay and releases the room for cleaning.
// @Summary Check a booking out
// @Description Close a checked-in booking, record extra charges and move the room to cleaning.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CheckoutBookingRequest true "Checkout details"
// @Success 200 {object} response.Data[dto.CheckoutBookingResponse] "Checkout summary"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/checkout [post]
// @Security BearerAuth
func (handler *Handler) CheckoutBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckoutBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	var req dto.CheckoutBookingRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	result, err := handler.service.Checkout(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check booking out")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking checked out successfully by user " + user)

	response.WithJSON(w, http.StatusOK, result)
}

// GetBookings retrieves bookings with optional filters.
// @Summary Get all bookings
// @Description Retrieve bookings with optional status and room filters.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param room_id query string false "Filter by room"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if roomID := r.URL.Query().Get(model.FieldRoomID); roomID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomID,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetActiveBookings retrieves bookings that currently hold a room.
// @Summary Get active bookings
// @Description Retrieve confirmed and checked-in bookings.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of active bookings"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/active [get]
func (handler *Handler) GetActiveBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActiveBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.GetActive(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get active bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Active bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetTodayBookings retrieves bookings that checked in today.
// @Summary Get today's bookings
// @Description Retrieve bookings whose check-in falls on the current day.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of today's bookings"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/today [get]
func (handler *Handler) GetTodayBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodayBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.GetToday(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get today's bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Today's bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Description Retrieve a booking by its unique identifier.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}
