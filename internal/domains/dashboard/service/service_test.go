package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/otel/mocks"
	bookingMocks "lodge/internal/domains/booking/mocks"
	bookingModel "lodge/internal/domains/booking/model"
	"lodge/internal/domains/dashboard/service"
	guestMocks "lodge/internal/domains/guest/mocks"
	roomMocks "lodge/internal/domains/room/mocks"
	roomModel "lodge/internal/domains/room/model"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

type dashboardFixture struct {
	room    *roomMocks.MockRoom
	booking *bookingMocks.MockBooking
	guest   *guestMocks.MockGuest
	cache   *cacheMocks.MockRedisCache
	svc     service.Dashboard
}

func newDashboardFixture(t *testing.T) dashboardFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := dashboardFixture{
		room:    roomMocks.NewMockRoom(ctrl),
		booking: bookingMocks.NewMockBooking(ctrl),
		guest:   guestMocks.NewMockGuest(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.DashboardTTL = 60

	f.svc = service.New(f.room, f.booking, f.guest, cfg, f.cache, mocks.NewOtel())

	return f
}

func TestDashboardService_Stats(t *testing.T) {
	rooms := []roomModel.Room{
		{ID: "r1", Status: constant.RoomStatusOccupied, RoomType: constant.RoomTypeStandard},
		{ID: "r2", Status: constant.RoomStatusOccupied, RoomType: constant.RoomTypeStandard},
		{ID: "r3", Status: constant.RoomStatusOccupied, RoomType: constant.RoomTypeLuxury},
		{ID: "r4", Status: constant.RoomStatusOccupied, RoomType: constant.RoomTypePenthouse},
		{ID: "r5", Status: constant.RoomStatusAvailable, RoomType: constant.RoomTypeStandard},
		{ID: "r6", Status: constant.RoomStatusAvailable, RoomType: constant.RoomTypeStandard},
		{ID: "r7", Status: constant.RoomStatusAvailable, RoomType: constant.RoomTypeLuxury},
		{ID: "r8", Status: constant.RoomStatusCleaning, RoomType: constant.RoomTypeStandard},
		{ID: "r9", Status: constant.RoomStatusMaintenance, RoomType: constant.RoomTypeStandard},
		{ID: "r10", Status: constant.RoomStatusAvailable, RoomType: constant.RoomTypeFunctionHall},
	}

	t.Run("aggregates the daily snapshot", func(t *testing.T) {
		f := newDashboardFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.room.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(rooms, nil)

		f.booking.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{
				{ID: "b1", TotalAmount: 1100, ExtraCharges: 150},
				{ID: "b2", TotalAmount: 800},
			}, nil)

		f.guest.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(3, nil)

		f.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := f.svc.Stats(context.Background())

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 10, res.TotalRooms)
		assert.Equal(t, 4, res.AvailableRooms)
		assert.Equal(t, 4, res.OccupiedRooms)
		assert.Equal(t, 1, res.CleaningRooms)
		assert.Equal(t, 1, res.MaintenanceRooms)

		// 8 bookable rooms once the function hall and the maintenance room
		// are excluded, 4 of them occupied.
		assert.Equal(t, 50, res.OccupancyRate)

		assert.Equal(t, 3, res.GuestsToday)
		assert.InDelta(t, 2050.0, res.TodayCollection, 0.001)
	})

	t.Run("empty inventory does not divide by zero", func(t *testing.T) {
		f := newDashboardFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.room.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]roomModel.Room{}, nil)

		f.booking.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{}, nil)

		f.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := f.svc.Stats(context.Background())

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 0, res.TotalRooms)
		assert.Equal(t, 0, res.OccupancyRate)
		assert.Equal(t, 0, res.GuestsToday)
	})

	t.Run("cache hit skips the repositories", func(t *testing.T) {
		f := newDashboardFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := f.svc.Stats(context.Background())

		assert.NoError(t, err)
	})

	t.Run("room repository failure", func(t *testing.T) {
		f := newDashboardFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.room.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := f.svc.Stats(context.Background())

		assert.Error(t, err)
	})
}

func TestDashboardService_Departures(t *testing.T) {
	f := newDashboardFixture(t)

	overdue := bookingModel.Booking{
		ID:               "b1",
		RoomNumber:       "101",
		RoomType:         constant.RoomTypeStandard,
		Status:           constant.BookingStatusCheckedIn,
		ExpectedCheckout: timezone.Now().Add(-3 * time.Hour),
		TotalAmount:      1100,
		AdvancePaid:      500,
	}
	upcoming := bookingModel.Booking{
		ID:               "b2",
		RoomNumber:       "203",
		RoomType:         constant.RoomTypeLuxury,
		Status:           constant.BookingStatusCheckedIn,
		ExpectedCheckout: timezone.Now().Add(3 * time.Hour),
		TotalAmount:      2000,
		AdvancePaid:      2000,
	}

	f.booking.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]bookingModel.Booking{overdue}, nil)

	f.booking.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]bookingModel.Booking{upcoming}, nil)

	res, err := f.svc.Departures(context.Background())

	require.NoError(t, err)
	require.Len(t, res.Overdue, 1)
	require.Len(t, res.UpcomingToday, 1)

	assert.Equal(t, "b1", res.Overdue[0].BookingID)
	assert.InDelta(t, 600.0, res.Overdue[0].BalanceDue, 0.001)

	assert.Equal(t, "b2", res.UpcomingToday[0].BookingID)
	assert.InDelta(t, 0.0, res.UpcomingToday[0].BalanceDue, 0.001)
}

func TestDashboardService_MonthlyRevenue(t *testing.T) {
	t.Run("rejects a malformed month", func(t *testing.T) {
		f := newDashboardFixture(t)

		_, err := f.svc.MonthlyRevenue(context.Background(), "August 2026")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("breaks revenue down by component, day and floor", func(t *testing.T) {
		f := newDashboardFixture(t)

		loc := timezone.GetLocation()

		bookings := []bookingModel.Booking{
			{
				ID:           "b1",
				RoomType:     constant.RoomTypeStandard,
				RoomFloor:    1,
				CheckIn:      time.Date(2026, 8, 5, 12, 0, 0, 0, loc),
				ACOpted:      true,
				BasePrice:    800,
				ACCharge:     300,
				TotalAmount:  1100,
				ExtraCharges: 100,
			},
			{
				ID:           "b2",
				RoomType:     constant.RoomTypeStandard,
				RoomFloor:    1,
				CheckIn:      time.Date(2026, 8, 5, 18, 0, 0, 0, loc),
				GeyserOpted:  true,
				BasePrice:    800,
				ACCharge:     300,
				GeyserCharge: 100,
				TotalAmount:  900,
			},
			{
				ID:          "b3",
				RoomType:    constant.RoomTypePenthouse,
				RoomFloor:   5,
				CheckIn:     time.Date(2026, 8, 20, 9, 0, 0, 0, loc),
				BasePrice:   3000,
				TotalAmount: 3000,
			},
		}

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.booking.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(bookings, nil)

		f.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := f.svc.MonthlyRevenue(context.Background(), "2026-08")

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, "2026-08", res.Month)

		assert.InDelta(t, 5100.0, res.TotalRevenue, 0.001)
		assert.InDelta(t, 4600.0, res.BaseRevenue, 0.001)
		assert.InDelta(t, 100.0, res.GeyserRevenue, 0.001)

		// Only the booking that opted in pays the AC charge, the unused
		// unit on b2 contributes nothing.
		assert.InDelta(t, 300.0, res.ACRevenue, 0.001)
		assert.Equal(t, 1, res.ACBookings)
		assert.Equal(t, 2, res.NonACBookings)

		require.Len(t, res.Daily, 31)
		assert.Equal(t, "2026-08-05", res.Daily[4].Date)
		assert.InDelta(t, 2100.0, res.Daily[4].Revenue, 0.001)
		assert.Equal(t, "2026-08-20", res.Daily[19].Date)
		assert.InDelta(t, 3000.0, res.Daily[19].Revenue, 0.001)
		assert.InDelta(t, 0.0, res.Daily[0].Revenue, 0.001)

		assert.InDelta(t, 2100.0, res.ByRoomType[constant.RoomTypeStandard], 0.001)
		assert.InDelta(t, 3000.0, res.ByRoomType[constant.RoomTypePenthouse], 0.001)

		require.Len(t, res.ByFloor, 5)
		assert.Equal(t, "Floor 1", res.ByFloor[0].Label)
		assert.InDelta(t, 2100.0, res.ByFloor[0].Revenue, 0.001)
		assert.Equal(t, "Penthouse", res.ByFloor[4].Label)
		assert.InDelta(t, 3000.0, res.ByFloor[4].Revenue, 0.001)
	})

	t.Run("cache hit", func(t *testing.T) {
		f := newDashboardFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := f.svc.MonthlyRevenue(context.Background(), "2026-08")

		assert.NoError(t, err)
	})
}

func TestIsWeekendRush(t *testing.T) {
	loc := timezone.GetLocation()

	tests := []struct {
		day  time.Time
		want bool
	}{
		{time.Date(2026, 8, 24, 12, 0, 0, 0, loc), false}, // Monday
		{time.Date(2026, 8, 25, 12, 0, 0, 0, loc), false},
		{time.Date(2026, 8, 26, 12, 0, 0, 0, loc), false},
		{time.Date(2026, 8, 27, 12, 0, 0, 0, loc), false},
		{time.Date(2026, 8, 28, 12, 0, 0, 0, loc), true}, // Friday
		{time.Date(2026, 8, 29, 12, 0, 0, 0, loc), true},
		{time.Date(2026, 8, 30, 12, 0, 0, 0, loc), true}, // Sunday
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, service.IsWeekendRush(tt.day), tt.day.Weekday().String())
	}
}
