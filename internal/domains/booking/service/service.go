package service

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/infras/s3"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/registration"
	"lodge/internal/domains/booking/repository"
	guestModel "lodge/internal/domains/guest/model"
	guestRepo "lodge/internal/domains/guest/repository"
	roomModel "lodge/internal/domains/room/model"
	roomRepo "lodge/internal/domains/room/repository"
	"lodge/shared"
	"lodge/shared/base64"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/phone"
	"lodge/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheGetRoom       = "room:get"
	cacheGetAllRoom    = "room:gets"
	cacheLookupGuest   = "guest:lookup"
	cacheGetAllGuest   = "guest:gets"
	cacheCountGuest    = "guest:count"
	cacheDashboard     = "dashboard"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	Draft(ctx context.Context, req dto.DraftBookingRequest) dto.DraftBookingResponse
	Checkout(ctx context.Context, req dto.CheckoutBookingRequest, id string) (dto.CheckoutBookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetActive(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	GetToday(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	guestRepo guestRepo.Guest
	roomRepo  roomRepo.Room
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
	kafka     kafka.Client
}

func New(
	repo repository.Booking,
	guestRepo guestRepo.Guest,
	roomRepo roomRepo.Room,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
	kafka kafka.Client,
) Booking {
	return &serviceImpl{
		repo:      repo,
		guestRepo: guestRepo,
		roomRepo:  roomRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
		kafka:     kafka,
	}
}

// Draft scores a possibly half-filled registration form without touching
// storage. The front desk polls this while the form is being filled.
func (s *serviceImpl) Draft(ctx context.Context, req dto.DraftBookingRequest) dto.DraftBookingResponse {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Draft")
	defer scope.End()

	res := dto.DraftBookingResponse{}
	res.FromState(req.ToState())

	return res
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	state, err := req.ToState()
	if err != nil {
		return res, err
	}

	if err = registration.Validate(state); err != nil {
		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	resolved, err := s.resolveReturningGuest(ctx, state)
	if err != nil {
		return res, err
	}

	state = MergeResolvedDocuments(state, resolved)

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(state.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.BadRequestFromString("room does not exist") // nolint:wrapcheck
	}

	if room.Status != constant.RoomStatusAvailable {
		return res, failure.Conflict("room is no longer available") // nolint:wrapcheck
	}

	now := timezone.Now()
	booking := buildBooking(state, room, user, now)
	guests := s.buildGuests(ctx, state, booking.ID, user, now)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin booking transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
		log.Error().Err(err).Msg("failed to insert booking")

		return res, fmt.Errorf("failed to insert booking: %w", err)
	}

	if err = s.guestRepo.InsertBulkTx(ctx, tx, guests); err != nil {
		log.Error().Err(err).Msg("failed to insert guests")

		return res, fmt.Errorf("failed to insert guests: %w", err)
	}

	roomFields := map[string]any{
		roomModel.FieldStatus:    constant.RoomStatusOccupied,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}
	if err = s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(room.ID, roomModel.FieldID, roomModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to mark room occupied")

		return res, fmt.Errorf("failed to mark room occupied: %w", err)
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit booking transaction")

		return res, fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	s.afterWrite(ctx, booking, guests, dto.EventBookingCreated)

	res = dto.CreateBookingResponse{
		BookingID:   booking.ID,
		Status:      booking.Status,
		CheckIn:     timezone.Format(booking.CheckIn, constant.DateFormat),
		TotalAmount: booking.TotalAmount,
	}

	return res, nil
}

func (s *serviceImpl) Checkout(ctx context.Context, req dto.CheckoutBookingRequest, id string) (res dto.CheckoutBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Checkout")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.Status != constant.BookingStatusCheckedIn {
		return res, failure.Conflict("booking is not checked in") // nolint:wrapcheck
	}

	if booking.RoomID != req.RoomID {
		return res, failure.BadRequestFromString("room does not belong to this booking") // nolint:wrapcheck
	}

	now := timezone.Now()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin checkout transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	bookingFields := map[string]any{
		model.FieldStatus:        constant.BookingStatusCheckedOut,
		model.FieldCheckOut:      now,
		model.FieldExtraCharges:  req.ExtraCharges,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}
	if err = s.repo.UpdateTx(ctx, tx, bookingFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking on checkout")

		return res, fmt.Errorf("failed to update booking on checkout: %w", err)
	}

	roomFields := map[string]any{
		roomModel.FieldStatus:    constant.RoomStatusCleaning,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}
	if err = s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to mark room for cleaning")

		return res, fmt.Errorf("failed to mark room for cleaning: %w", err)
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit checkout transaction")

		return res, fmt.Errorf("failed to commit checkout transaction: %w", err)
	}

	booking.Status = constant.BookingStatusCheckedOut
	booking.CheckOut = &now
	booking.ExtraCharges = req.ExtraCharges

	s.afterWrite(ctx, booking, nil, dto.EventBookingCheckedOut)

	res = dto.CheckoutBookingResponse{
		BookingID:    booking.ID,
		Status:       booking.Status,
		CheckOut:     timezone.Format(now, constant.DateFormat),
		TotalAmount:  booking.TotalAmount,
		AdvancePaid:  booking.AdvancePaid,
		ExtraCharges: booking.ExtraCharges,
		BalanceDue:   booking.BalanceDue(),
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetActive(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    []string{constant.BookingStatusConfirmed, constant.BookingStatusCheckedIn},
				Table:    model.TableName,
			},
		},
	}

	return s.GetAll(ctx, req, filter)
}

func (s *serviceImpl) GetToday(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error) {
	now := timezone.Now()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "check_in_from",
				Field:    model.FieldCheckIn,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    timezone.StartOfDay(now),
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "check_in_to",
				Field:    model.FieldCheckIn,
				Operator: gDto.FilterOperatorLessEq,
				Value:    timezone.EndOfDay(now),
				Table:    model.TableName,
			},
		},
	}

	return s.GetAll(ctx, req, filter)
}

// resolveReturningGuest re-checks the returning-verified waiver against
// storage. The referenced guest record must exist and carry id_verified, a
// client-supplied id alone is not trusted.
func (s *serviceImpl) resolveReturningGuest(ctx context.Context, state registration.State) (guestModel.Guest, error) {
	primary := state.Guests[0]
	if !primary.Waived() {
		return guestModel.Guest{}, nil
	}

	resolved, err := s.guestRepo.Get(ctx, shared.FilterByID(primary.ResolvedGuestID, guestModel.FieldID, guestModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve returning guest")

		return guestModel.Guest{}, fmt.Errorf("failed to resolve returning guest: %w", err)
	}

	if resolved.ID == constant.Empty || !resolved.IDVerified {
		return guestModel.Guest{}, failure.BadRequestFromString("returning guest is not verified") // nolint:wrapcheck
	}

	return resolved, nil
}

// MergeResolvedDocuments copies the resolved guest's stored document
// references onto the waived primary, replacing whatever the client echoed
// back. The lookup response hands out short-lived signed URLs, so only the
// stored references may be persisted on the new stay.
func MergeResolvedDocuments(state registration.State, resolved guestModel.Guest) registration.State {
	if len(state.Guests) == 0 || resolved.ID == constant.Empty || !state.Guests[0].Waived() {
		return state
	}

	next := state
	next.Guests = slices.Clone(state.Guests)
	primary := &next.Guests[0]

	primary.FrontImage = resolved.IDFrontImage
	primary.BackImage = resolved.IDBackImage

	if primary.IDProofType == constant.Empty {
		primary.IDProofType = resolved.IDProofType
	}

	if primary.IDProofNumber == constant.Empty {
		primary.IDProofNumber = resolved.IDProofNumber
	}

	return next
}

// Tariff snapshots the price components for a stay. Charges for amenities
// that were not opted into stay at zero.
func Tariff(room roomModel.Room, acOpted, geyserOpted bool) (acCharge, geyserCharge, total float64) {
	total = room.BasePrice

	if acOpted {
		acCharge = room.ACCharge
		total += acCharge
	}

	if geyserOpted {
		geyserCharge = room.GeyserCharge
		total += geyserCharge
	}

	return acCharge, geyserCharge, total
}

func buildBooking(state registration.State, room roomModel.Room, user string, now time.Time) model.Booking {
	acCharge, geyserCharge, total := Tariff(room, state.ACOpted, state.GeyserOpted)

	return model.Booking{
		ID:               uuid.NewString(),
		RoomID:           room.ID,
		CheckIn:          now,
		ExpectedCheckout: state.ExpectedCheckout,
		Status:           constant.BookingStatusCheckedIn,
		ACOpted:          state.ACOpted,
		GeyserOpted:      state.GeyserOpted,
		BasePrice:        room.BasePrice,
		ACCharge:         acCharge,
		GeyserCharge:     geyserCharge,
		TotalAmount:      total,
		AdvancePaid:      state.AdvancePaid,
		Notes:            state.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// buildGuests turns the form guests into rows, uploading any inline ID
// images along the way. An upload failure keeps the inline data as the
// stored reference so the booking never fails over a slow object store.
func (s *serviceImpl) buildGuests(ctx context.Context, state registration.State, bookingID, user string, now time.Time) []guestModel.Guest {
	guests := make([]guestModel.Guest, len(state.Guests))

	for i, form := range state.Guests {
		guestID := uuid.NewString()

		normalized := phone.Normalize(form.PhoneNumber)
		if normalized == constant.Empty {
			normalized = form.PhoneNumber
		}

		guests[i] = guestModel.Guest{
			ID:            guestID,
			BookingID:     bookingID,
			FullName:      form.FullName,
			PhoneNumber:   normalized,
			IDProofType:   form.IDProofType,
			IDProofNumber: form.IDProofNumber,
			Address:       form.Address,
			IDFrontImage:  s.storeImage(ctx, bookingID, guestID, constant.ImageSideFront, form.FrontImage),
			IDBackImage:   s.storeImage(ctx, bookingID, guestID, constant.ImageSideBack, form.BackImage),
			IDVerified:    form.Waived() || form.Documented(),
			IsPrimary:     i == 0,
			Metadata: gModel.Metadata{
				CreatedAt:  now,
				ModifiedAt: now,
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}
	}

	return guests
}

func (s *serviceImpl) storeImage(ctx context.Context, bookingID, guestID, side, ref string) string {
	if !base64.IsDataURL(ref) {
		// Already a stored reference (returning guest) or empty
		return ref
	}

	contentType, data, err := base64.Decode(ref)
	if err != nil {
		log.Error().Err(err).Str("side", side).Msg("failed to decode inline id image, keeping inline data")

		return ref
	}

	fileName := fmt.Sprintf("%s.%s", side, imageExtension(contentType))
	directory := path.Join(bookingID, guestID)

	url, err := s.s3.UploadFileBytes(ctx, constant.Empty, directory, fileName, contentType, data)
	if err != nil {
		log.Error().Err(err).Str("side", side).Msg("failed to upload id image, keeping inline data")

		return ref
	}

	return url
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	default:
		return strings.TrimPrefix(contentType, "image/")
	}
}

func (s *serviceImpl) afterWrite(ctx context.Context, booking model.Booking, guests []guestModel.Guest, event string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, booking.RoomID)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheGetAllGuest)
		shared.InvalidateCaches(c, s.cache, cacheCountGuest)
		shared.InvalidateCaches(c, s.cache, cacheDashboard)

		for _, guest := range guests {
			if guest.PhoneNumber == constant.Empty {
				continue
			}

			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheLookupGuest, guest.PhoneNumber)); err != nil {
				log.Error().Err(err).Msg("failed to delete guest lookup cache")
			}
		}

		s.publishEvent(c, booking, event)
	}()
}

func (s *serviceImpl) publishEvent(ctx context.Context, booking model.Booking, event string) {
	message := kafka.Message{
		Key: booking.ID,
		Value: dto.BookingEventMessage{
			Event:       event,
			BookingID:   booking.ID,
			RoomID:      booking.RoomID,
			Status:      booking.Status,
			TotalAmount: booking.TotalAmount,
			OccurredAt:  timezone.Format(timezone.Now(), constant.DateFormat),
		},
	}

	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.BookingEvents, message); err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to publish booking event")
	}
}
