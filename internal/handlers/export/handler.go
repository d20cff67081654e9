package export

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/export/model/dto"
	"lodge/internal/domains/export/service"
	"lodge/shared/constant"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Export
	otel    otel.Otel
}

func New(service service.Export, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/exports", func(routerGroup chi.Router) {
		routerGroup.Post("/police-report", handler.PoliceReport)
		routerGroup.Post("/guest-register", handler.GuestRegister)
		routerGroup.Post("/guest-register-detailed", handler.DetailedRegister)
		routerGroup.Post("/guest-register-csv", handler.GuestRegisterCSV)
		routerGroup.Post("/id-images", handler.IDImageArchive)
	})
}

// PoliceReport downloads the police verification PDF.
// @Summary Export the police verification report
// @Description Render the selected bookings as the police submission PDF. Incomplete identification does not block this format.
// @Tags Export
// @Accept json
// @Produce application/pdf
// @Param request body dto.ExportRequest true "Booking selection"
// @Success 200 {file} binary "PDF report"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exports/police-report [post]
// @Security BearerAuth
func (handler *Handler) PoliceReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PoliceReport")
	defer scope.End()

	var req dto.ExportRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	file, err := handler.service.PoliceReportPDF(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export police report")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Police report exported successfully")

	response.WithFile(w, file.FileName, file.ContentType, file.Data)
}

// GuestRegister downloads the tabular guest register PDF.
// @Summary Export the guest register
// @Description Render the selected bookings as the guest register PDF. Every booking must carry complete identification.
// @Tags Export
// @Accept json
// @Produce application/pdf
// @Param request body dto.ExportRequest true "Booking selection"
// @Success 200 {file} binary "PDF report"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exports/guest-register [post]
// @Security BearerAuth
func (handler *Handler) GuestRegister(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GuestRegister")
	defer scope.End()

	var req dto.ExportRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	file, err := handler.service.GuestRegisterPDF(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export guest register")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guest register exported successfully")

	response.WithFile(w, file.FileName, file.ContentType, file.Data)
}

// DetailedRegister downloads the page-per-guest register with ID images.
// @Summary Export the detailed guest register
// @Description Render one page per booking with the identification images embedded. Every booking must carry complete identification.
// @Tags Export
// @Accept json
// @Produce application/pdf
// @Param request body dto.ExportRequest true "Booking selection"
// @Success 200 {file} binary "PDF report"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exports/guest-register-detailed [post]
// @Security BearerAuth
func (handler *Handler) DetailedRegister(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DetailedRegister")
	defer scope.End()

	var req dto.ExportRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	file, err := handler.service.DetailedRegisterPDF(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export detailed register")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Detailed register exported successfully")

	response.WithFile(w, file.FileName, file.ContentType, file.Data)
}

// GuestRegisterCSV downloads the guest register as CSV.
// @Summary Export the guest register as CSV
// @Description Render the selected bookings as a CSV file. Incomplete identification does not block this format.
// @Tags Export
// @Accept json
// @Produce text/csv
// @Param request body dto.ExportRequest true "Booking selection"
// @Success 200 {file} binary "CSV file"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exports/guest-register-csv [post]
// @Security BearerAuth
func (handler *Handler) GuestRegisterCSV(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GuestRegisterCSV")
	defer scope.End()

	var req dto.ExportRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	file, err := handler.service.GuestRegisterCSV(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export guest register csv")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guest register CSV exported successfully")

	response.WithFile(w, file.FileName, file.ContentType, file.Data)
}

// IDImageArchive downloads the identification images as a zip archive.
// @Summary Export the ID image archive
// @Description Bundle the selected bookings' identification images into a zip, optionally AES-256 encrypted with a password.
// @Tags Export
// @Accept json
// @Produce application/zip
// @Param request body dto.ArchiveRequest true "Booking selection and optional password"
// @Success 200 {file} binary "Zip archive"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exports/id-images [post]
// @Security BearerAuth
func (handler *Handler) IDImageArchive(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".IDImageArchive")
	defer scope.End()

	var req dto.ArchiveRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	file, err := handler.service.IDImageArchive(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export id image archive")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("ID image archive exported successfully")

	response.WithFile(w, file.FileName, file.ContentType, file.Data)
}
