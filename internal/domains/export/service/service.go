package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/infras/s3"
	bookingModel "lodge/internal/domains/booking/model"
	bookingRepo "lodge/internal/domains/booking/repository"
	"lodge/internal/domains/export/model/dto"
	guestModel "lodge/internal/domains/guest/model"
	guestRepo "lodge/internal/domains/guest/repository"
	"lodge/shared/base64"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
)

type Export interface {
	PoliceReportPDF(ctx context.Context, req dto.ExportRequest) (dto.FileResponse, error)
	GuestRegisterPDF(ctx context.Context, req dto.ExportRequest) (dto.FileResponse, error)
	DetailedRegisterPDF(ctx context.Context, req dto.ExportRequest) (dto.FileResponse, error)
	GuestRegisterCSV(ctx context.Context, req dto.ExportRequest) (dto.FileResponse, error)
	IDImageArchive(ctx context.Context, req dto.ArchiveRequest) (dto.FileResponse, error)
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	guestRepo   guestRepo.Guest
	cfg         *config.Config
	otel        otel.Otel
	s3          s3.S3
}

func New(bookingRepo bookingRepo.Booking, guestRepo guestRepo.Guest, cfg *config.Config, otel otel.Otel, s3 s3.S3) Export {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		guestRepo:   guestRepo,
		cfg:         cfg,
		otel:        otel,
		s3:          s3,
	}
}

// PoliceReportPDF renders the plain tabular report. Police submissions go
// out even when some identification documents are missing, so this format
// skips the completeness gate.
func (s *serviceImpl) PoliceReportPDF(ctx context.Context, req dto.ExportRequest) (res dto.FileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PoliceReportPDF")
	defer scope.End()
	defer scope.TraceIfError(err)

	records, err := s.buildRecords(ctx, req)
	if err != nil {
		return res, err
	}

	data, err := s.renderPolicePDF(records, req)
	if err != nil {
		log.Error().Err(err).Msg("failed to render police report")

		return res, fmt.Errorf("failed to render police report: %w", err)
	}

	return dto.FileResponse{
		FileName:    fmt.Sprintf("police-verification-%s-%s.pdf", req.StartDate, req.EndDate),
		ContentType: constant.ContentTypePDF,
		Data:        data,
	}, nil
}

func (s *serviceImpl) GuestRegisterPDF(ctx context.Context, req dto.ExportRequest) (res dto.FileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GuestRegisterPDF")
	defer scope.End()
	defer scope.TraceIfError(err)

	records, err := s.buildRecords(ctx, req)
	if err != nil {
		return res, err
	}

	if err = ensureDocumented(records); err != nil {
		return res, err
	}

	data, err := s.renderRegisterPDF(records, req)
	if err != nil {
		log.Error().Err(err).Msg("failed to render guest register")

		return res, fmt.Errorf("failed to render guest register: %w", err)
	}

	return dto.FileResponse{
		FileName:    fmt.Sprintf("guest-register-%s-%s.pdf", req.StartDate, req.EndDate),
		ContentType: constant.ContentTypePDF,
		Data:        data,
	}, nil
}

func (s *serviceImpl) DetailedRegisterPDF(ctx context.Context, req dto.ExportRequest) (res dto.FileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DetailedRegisterPDF")
	defer scope.End()
	defer scope.TraceIfError(err)

	records, err := s.buildRecords(ctx, req)
	if err != nil {
		return res, err
	}

	if err = ensureDocumented(records); err != nil {
		return res, err
	}

	data, err := s.renderDetailedPDF(ctx, records, req)
	if err != nil {
		log.Error().Err(err).Msg("failed to render detailed register")

		return res, fmt.Errorf("failed to render detailed register: %w", err)
	}

	return dto.FileResponse{
		FileName:    fmt.Sprintf("guest-register-detailed-%s-%s.pdf", req.StartDate, req.EndDate),
		ContentType: constant.ContentTypePDF,
		Data:        data,
	}, nil
}

// GuestRegisterCSV skips the completeness gate like the police report.
func (s *serviceImpl) GuestRegisterCSV(ctx context.Context, req dto.ExportRequest) (res dto.FileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GuestRegisterCSV")
	defer scope.End()
	defer scope.TraceIfError(err)

	records, err := s.buildRecords(ctx, req)
	if err != nil {
		return res, err
	}

	data, err := renderCSV(records)
	if err != nil {
		log.Error().Err(err).Msg("failed to render csv")

		return res, fmt.Errorf("failed to render csv: %w", err)
	}

	return dto.FileResponse{
		FileName:    fmt.Sprintf("guest-register-%s-%s.csv", req.StartDate, req.EndDate),
		ContentType: constant.ContentTypeCSV,
		Data:        data,
	}, nil
}

func (s *serviceImpl) IDImageArchive(ctx context.Context, req dto.ArchiveRequest) (res dto.FileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IDImageArchive")
	defer scope.End()
	defer scope.TraceIfError(err)

	records, err := s.buildRecords(ctx, req.ExportRequest)
	if err != nil {
		return res, err
	}

	if err = ensureDocumented(records); err != nil {
		return res, err
	}

	data, err := s.renderArchive(ctx, records, req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to render id image archive")

		return res, fmt.Errorf("failed to render id image archive: %w", err)
	}

	return dto.FileResponse{
		FileName:    fmt.Sprintf("id-images-%s-%s.zip", req.StartDate, req.EndDate),
		ContentType: constant.ContentTypeZIP,
		Data:        data,
	}, nil
}

// buildRecords intersects the selected booking ids with the date window and
// flattens each booking to its primary guest.
func (s *serviceImpl) buildRecords(ctx context.Context, req dto.ExportRequest) ([]dto.Record, error) {
	start, end, err := req.Window()
	if err != nil {
		return nil, err
	}

	bookingFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    req.BookingIDs,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				ArgName:  "check_in_from",
				Field:    bookingModel.FieldCheckIn,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    start,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				ArgName:  "check_in_to",
				Field:    bookingModel.FieldCheckIn,
				Operator: gDto.FilterOperatorLessEq,
				Value:    end,
				Table:    bookingModel.TableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: bookingModel.FieldCheckIn, SortDir: gDto.SortDirAsc}

	bookings, err := s.bookingRepo.GetAll(ctx, params, bookingFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for export")

		return nil, fmt.Errorf("failed to get bookings for export: %w", err)
	}

	if len(bookings) == 0 {
		return nil, failure.NotFound("no bookings matched the selected window") // nolint:wrapcheck
	}

	ids := make([]string, len(bookings))
	for i, booking := range bookings {
		ids[i] = booking.ID
	}

	guestFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    guestModel.FieldBookingID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    guestModel.TableName,
			},
		},
	}

	guests, err := s.guestRepo.GetAll(ctx, gDto.QueryParams{}, guestFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get guests for export")

		return nil, fmt.Errorf("failed to get guests for export: %w", err)
	}

	primaries := map[string]guestModel.Guest{}
	companions := map[string]int{}

	for _, guest := range guests {
		if guest.IsPrimary {
			primaries[guest.BookingID] = guest
		} else {
			companions[guest.BookingID]++
		}
	}

	records := make([]dto.Record, 0, len(bookings))

	for _, booking := range bookings {
		primary := primaries[booking.ID]

		records = append(records, dto.Record{
			BookingID:        booking.ID,
			RoomNumber:       booking.RoomNumber,
			GuestName:        primary.FullName,
			PhoneNumber:      primary.PhoneNumber,
			IDProofType:      primary.IDProofType,
			IDProofNumber:    primary.IDProofNumber,
			Address:          primary.Address,
			FrontImage:       primary.IDFrontImage,
			BackImage:        primary.IDBackImage,
			CheckIn:          booking.CheckIn,
			CheckOut:         booking.CheckOut,
			AdditionalGuests: companions[booking.ID],
		})
	}

	return records, nil
}

func ensureDocumented(records []dto.Record) error {
	missing := 0

	for _, record := range records {
		if !record.Documented() {
			missing++
		}
	}

	if missing > 0 {
		return failure.BadRequestFromString(fmt.Sprintf("%d booking(s) are missing identification documents", missing)) // nolint:wrapcheck
	}

	return nil
}

// fetchImage loads an identification image from wherever its reference
// points, either the object store or inline data kept after a failed upload.
func (s *serviceImpl) fetchImage(ctx context.Context, ref string) ([]byte, string, error) {
	if ref == constant.Empty {
		return nil, "", fmt.Errorf("empty image reference")
	}

	if base64.IsDataURL(ref) {
		contentType, data, err := base64.Decode(ref)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode inline image: %w", err)
		}

		return data, contentType, nil
	}

	bucket := s.cfg.External.S3.BucketName

	objectName := s.s3.GetObjectNameFromURL(bucket, ref)
	if objectName == constant.Empty {
		objectName = ref
	}

	data, err := s.s3.GetObjectBytes(ctx, bucket, objectName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image from object store: %w", err)
	}

	return data, contentTypeFromName(objectName), nil
}

func contentTypeFromName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".png") {
		return "image/png"
	}

	return "image/jpeg"
}

func displayProofType(proofType string) string {
	if proofType == constant.Empty {
		return "-"
	}

	words := strings.Split(proofType, "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}

	return strings.Join(words, " ")
}
