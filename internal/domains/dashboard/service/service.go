package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"lodge/config"
	"lodge/infras/otel"
	bookingModel "lodge/internal/domains/booking/model"
	bookingRepo "lodge/internal/domains/booking/repository"
	"lodge/internal/domains/dashboard/model/dto"
	guestModel "lodge/internal/domains/guest/model"
	guestRepo "lodge/internal/domains/guest/repository"
	roomModel "lodge/internal/domains/room/model"
	roomRepo "lodge/internal/domains/room/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

const (
	cacheStats   = "dashboard:stats"
	cacheRevenue = "dashboard:revenue"

	penthouseFloor = 5
	topFloor       = 5
)

type Dashboard interface {
	Stats(ctx context.Context) (dto.DashboardStatsResponse, error)
	Departures(ctx context.Context) (dto.DeparturesResponse, error)
	MonthlyRevenue(ctx context.Context, month string) (dto.RevenueReportResponse, error)
}

type serviceImpl struct {
	roomRepo    roomRepo.Room
	bookingRepo bookingRepo.Booking
	guestRepo   guestRepo.Guest
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(roomRepo roomRepo.Room, bookingRepo bookingRepo.Booking, guestRepo guestRepo.Guest, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Dashboard {
	return &serviceImpl{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		guestRepo:   guestRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Stats aggregates the front-desk snapshot for the current day. The result
// is cached briefly since every write path invalidates the dashboard prefix.
func (s *serviceImpl) Stats(ctx context.Context) (res dto.DashboardStatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	cacheKey := shared.BuildCacheKey(cacheStats, timezone.Format(now, constant.DateOnlyFormat))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for dashboard stats")

		return res, nil
	}

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms for dashboard")

		return res, fmt.Errorf("failed to get rooms for dashboard: %w", err)
	}

	res = countRooms(rooms)
	res.WeekendRush = IsWeekendRush(now)

	bookings, err := s.todayBookings(ctx, now)
	if err != nil {
		return res, err
	}

	for _, booking := range bookings {
		res.TodayCollection += booking.TotalAmount + booking.ExtraCharges
	}

	res.GuestsToday, err = s.countGuests(ctx, bookings)
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.DashboardTTL); err != nil {
			log.Error().Err(err).Msg("failed to save dashboard stats to cache")
		}
	}()

	return res, nil
}

// Departures lists checked-in bookings that should leave, split into the
// ones already past their expected checkout and the ones due later today.
// Not cached, overdue status flips with the clock alone.
func (s *serviceImpl) Departures(ctx context.Context) (res dto.DeparturesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Departures")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()

	overdue, err := s.departuresBetween(ctx, time.Time{}, now)
	if err != nil {
		return res, err
	}

	upcoming, err := s.departuresBetween(ctx, now, timezone.EndOfDay(now))
	if err != nil {
		return res, err
	}

	res.Overdue = toDepartureItems(overdue)
	res.UpcomingToday = toDepartureItems(upcoming)

	return res, nil
}

// MonthlyRevenue breaks a month's bookings down by price component, day,
// room type and floor. Bookings are attributed to the month they checked in.
func (s *serviceImpl) MonthlyRevenue(ctx context.Context, month string) (res dto.RevenueReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MonthlyRevenue")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, err := timezone.Parse(constant.MonthFormat, month)
	if err != nil {
		return res, failure.BadRequestFromString("month must use the YYYY-MM format") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheRevenue, month)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for revenue report")

		return res, nil
	}

	filter := checkInWindowFilter(timezone.StartOfMonth(start), timezone.EndOfMonth(start))

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for revenue report")

		return res, fmt.Errorf("failed to get bookings for revenue report: %w", err)
	}

	res = buildRevenueReport(month, timezone.StartOfMonth(start), bookings)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.DashboardTTL); err != nil {
			log.Error().Err(err).Msg("failed to save revenue report to cache")
		}
	}()

	return res, nil
}

// IsWeekendRush reports whether the lodge expects its weekend walk-in
// traffic, which runs Friday through Sunday.
func IsWeekendRush(t time.Time) bool {
	weekday := timezone.ToAppTime(t).Weekday()

	return weekday == time.Friday || weekday == time.Saturday || weekday == time.Sunday
}

// countRooms tallies rooms per status and derives the occupancy rate over
// the bookable inventory. Function halls and rooms under maintenance are not
// sellable nights, so they stay out of the denominator.
func countRooms(rooms []roomModel.Room) dto.DashboardStatsResponse {
	var res dto.DashboardStatsResponse

	bookable, occupiedBookable := 0, 0

	for _, room := range rooms {
		res.TotalRooms++

		switch room.Status {
		case constant.RoomStatusAvailable:
			res.AvailableRooms++
		case constant.RoomStatusOccupied:
			res.OccupiedRooms++
		case constant.RoomStatusCleaning:
			res.CleaningRooms++
		case constant.RoomStatusMaintenance:
			res.MaintenanceRooms++
		}

		if room.RoomType == constant.RoomTypeFunctionHall || room.Status == constant.RoomStatusMaintenance {
			continue
		}

		bookable++

		if room.Status == constant.RoomStatusOccupied {
			occupiedBookable++
		}
	}

	if bookable == 0 {
		bookable = 1
	}

	res.OccupancyRate = int(math.Round(float64(occupiedBookable) / float64(bookable) * 100))

	return res
}

func (s *serviceImpl) todayBookings(ctx context.Context, now time.Time) ([]bookingModel.Booking, error) {
	filter := checkInWindowFilter(timezone.StartOfDay(now), timezone.EndOfDay(now))

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get today's bookings for dashboard")

		return nil, fmt.Errorf("failed to get today's bookings for dashboard: %w", err)
	}

	return bookings, nil
}

func (s *serviceImpl) countGuests(ctx context.Context, bookings []bookingModel.Booking) (int, error) {
	if len(bookings) == 0 {
		return 0, nil
	}

	ids := make([]string, len(bookings))
	for i, booking := range bookings {
		ids[i] = booking.ID
	}

	filter := gDto.FilterGroup{
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

	count, err := s.guestRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count today's guests for dashboard")

		return 0, fmt.Errorf("failed to count today's guests for dashboard: %w", err)
	}

	return count, nil
}

// departuresBetween returns checked-in bookings whose expected checkout
// falls inside the window. A zero from leaves the window open-ended at the
// start.
func (s *serviceImpl) departuresBetween(ctx context.Context, from, to time.Time) ([]bookingModel.Booking, error) {
	filters := []any{
		gDto.Filter{
			Field:    bookingModel.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    constant.BookingStatusCheckedIn,
			Table:    bookingModel.TableName,
		},
		gDto.Filter{
			ArgName:  "expected_checkout_to",
			Field:    bookingModel.FieldExpectedCheckout,
			Operator: gDto.FilterOperatorLessEq,
			Value:    to,
			Table:    bookingModel.TableName,
		},
	}

	if !from.IsZero() {
		filters = append(filters, gDto.Filter{
			ArgName:  "expected_checkout_from",
			Field:    bookingModel.FieldExpectedCheckout,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    from,
			Table:    bookingModel.TableName,
		})
	}

	params := gDto.QueryParams{SortBy: bookingModel.FieldExpectedCheckout, SortDir: gDto.SortDirAsc}

	bookings, err := s.bookingRepo.GetAll(ctx, params, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get departures for dashboard")

		return nil, fmt.Errorf("failed to get departures for dashboard: %w", err)
	}

	return bookings, nil
}

func toDepartureItems(bookings []bookingModel.Booking) []dto.DepartureItem {
	items := make([]dto.DepartureItem, len(bookings))

	for i, booking := range bookings {
		items[i] = dto.DepartureItem{
			BookingID:        booking.ID,
			RoomNumber:       booking.RoomNumber,
			RoomType:         booking.RoomType,
			ExpectedCheckout: timezone.Format(booking.ExpectedCheckout, time.RFC3339),
			TotalAmount:      booking.TotalAmount,
			BalanceDue:       booking.BalanceDue(),
		}
	}

	return items
}

func checkInWindowFilter(from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "check_in_from",
				Field:    bookingModel.FieldCheckIn,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    from,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				ArgName:  "check_in_to",
				Field:    bookingModel.FieldCheckIn,
				Operator: gDto.FilterOperatorLessEq,
				Value:    to,
				Table:    bookingModel.TableName,
			},
		},
	}
}

func buildRevenueReport(month string, monthStart time.Time, bookings []bookingModel.Booking) dto.RevenueReportResponse {
	res := dto.RevenueReportResponse{
		Month:      month,
		ByRoomType: map[string]float64{},
	}

	daily := map[string]float64{}
	floors := map[int]float64{}

	for _, booking := range bookings {
		revenue := booking.TotalAmount + booking.ExtraCharges

		res.TotalRevenue += revenue
		res.BaseRevenue += booking.BasePrice
		res.GeyserRevenue += booking.GeyserCharge

		if booking.ACOpted {
			res.ACRevenue += booking.ACCharge
			res.ACBookings++
		} else {
			res.NonACBookings++
		}

		daily[timezone.Format(booking.CheckIn, constant.DateOnlyFormat)] += revenue
		res.ByRoomType[booking.RoomType] += revenue
		floors[booking.RoomFloor] += revenue
	}

	for day := monthStart; day.Month() == monthStart.Month(); day = day.AddDate(0, 0, 1) {
		date := timezone.Format(day, constant.DateOnlyFormat)
		res.Daily = append(res.Daily, dto.DailyRevenue{Date: date, Revenue: daily[date]})
	}

	for floor := 1; floor <= topFloor; floor++ {
		label := fmt.Sprintf("Floor %d", floor)
		if floor == penthouseFloor {
			label = "Penthouse"
		}

		res.ByFloor = append(res.ByFloor, dto.FloorRevenue{Label: label, Revenue: floors[floor]})
	}

	return res
}
