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
	kafkaMocks "lodge/infras/kafka/mocks"
	"lodge/infras/otel/mocks"
	s3Mocks "lodge/infras/s3/mocks"
	bookingMocks "lodge/internal/domains/booking/mocks"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/registration"
	"lodge/internal/domains/booking/service"
	guestMocks "lodge/internal/domains/guest/mocks"
	guestModel "lodge/internal/domains/guest/model"
	roomMocks "lodge/internal/domains/room/mocks"
	roomModel "lodge/internal/domains/room/model"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

type bookingFixture struct {
	repo  *bookingMocks.MockBooking
	guest *guestMocks.MockGuest
	room  *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
	kafka *kafkaMocks.MockClient
	svc   service.Booking
}

func newBookingFixture(t *testing.T) bookingFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := bookingFixture{
		repo:  bookingMocks.NewMockBooking(ctrl),
		guest: guestMocks.NewMockGuest(ctrl),
		room:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
		kafka: kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.guest, f.room, cfg, f.cache, mocks.NewOtel(), f.s3, f.kafka)

	return f
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
}

func validCreateRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID: "2f0c9f9a-6f4e-4d43-9a93-0b8f6f0a8f11",
		Guests: []dto.BookingGuestRequest{
			{
				FullName:      "Ramesh Kumar",
				PhoneNumber:   "9876543210",
				IDProofType:   constant.IDProofAadhaar,
				IDProofNumber: "1234-5678-9012",
				FrontImage:    "stored/front.jpg",
				BackImage:     "stored/back.jpg",
			},
		},
		ExpectedCheckout: time.Now().Add(24 * time.Hour).Format(constant.DateFormat),
		AdvancePaid:      500,
	}
}

func TestBookingService_Create_Guards(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *dto.CreateBookingRequest)
		setupMock func(f bookingFixture)
		wantCode  int
	}{
		{
			name: "unparseable expected checkout",
			mutate: func(req *dto.CreateBookingRequest) {
				req.ExpectedCheckout = "tomorrow"
			},
			setupMock: func(_ bookingFixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "incomplete registration form",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Guests[0].BackImage = ""
			},
			setupMock: func(_ bookingFixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "room does not exist",
			mutate: func(_ *dto.CreateBookingRequest) {},
			setupMock: func(f bookingFixture) {
				f.room.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "room already occupied",
			mutate: func(_ *dto.CreateBookingRequest) {},
			setupMock: func(f bookingFixture) {
				f.room.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{ID: "room-1", Status: constant.RoomStatusOccupied}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "room lookup failure",
			mutate: func(_ *dto.CreateBookingRequest) {},
			setupMock: func(f bookingFixture) {
				f.room.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			tt.setupMock(f)

			req := validCreateRequest()
			tt.mutate(&req)

			_, err := f.svc.Create(testContext(), req)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func returningCreateRequest() dto.CreateBookingRequest {
	req := validCreateRequest()
	req.Guests = []dto.BookingGuestRequest{
		{
			Variant:         "returning_verified",
			ResolvedGuestID: "7f0c9f9a-6f4e-4d43-9a93-0b8f6f0a8f22",
			FullName:        "Sita Devi",
			PhoneNumber:     "9123456780",
		},
	}

	return req
}

func TestBookingService_Create_ReturningGuestGate(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f bookingFixture)
		wantCode  int
	}{
		{
			name: "resolved guest id points at nothing",
			setupMock: func(f bookingFixture) {
				f.guest.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(guestModel.Guest{}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "resolved guest is not verified",
			setupMock: func(f bookingFixture) {
				f.guest.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(guestModel.Guest{ID: "guest-1", IDVerified: false}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "resolver lookup failure",
			setupMock: func(f bookingFixture) {
				f.guest.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(guestModel.Guest{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Create(testContext(), returningCreateRequest())

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestMergeResolvedDocuments(t *testing.T) {
	resolved := guestModel.Guest{
		ID:            "guest-1",
		IDVerified:    true,
		IDProofType:   constant.IDProofAadhaar,
		IDProofNumber: "1234-5678-9012",
		IDFrontImage:  "booking-0/guest-1/front.jpg",
		IDBackImage:   "booking-0/guest-1/back.jpg",
	}

	t.Run("stored references replace whatever the client echoed", func(t *testing.T) {
		state := registration.State{
			Guests: []registration.GuestForm{
				{
					Variant:         registration.ReturningVerifiedGuest,
					ResolvedGuestID: "guest-1",
					FullName:        "Sita Devi",
					FrontImage:      "https://s3.example.com/front.jpg?X-Amz-Expires=3600",
					BackImage:       "",
				},
			},
		}

		merged := service.MergeResolvedDocuments(state, resolved)

		assert.Equal(t, "booking-0/guest-1/front.jpg", merged.Guests[0].FrontImage)
		assert.Equal(t, "booking-0/guest-1/back.jpg", merged.Guests[0].BackImage)
		assert.Equal(t, constant.IDProofAadhaar, merged.Guests[0].IDProofType)
		assert.Equal(t, "1234-5678-9012", merged.Guests[0].IDProofNumber)

		// Input state stays untouched
		assert.Equal(t, "https://s3.example.com/front.jpg?X-Amz-Expires=3600", state.Guests[0].FrontImage)
	})

	t.Run("guest-provided proof type wins when present", func(t *testing.T) {
		state := registration.State{
			Guests: []registration.GuestForm{
				{
					Variant:         registration.ReturningVerifiedGuest,
					ResolvedGuestID: "guest-1",
					IDProofType:     constant.IDProofPassport,
				},
			},
		}

		merged := service.MergeResolvedDocuments(state, resolved)

		assert.Equal(t, constant.IDProofPassport, merged.Guests[0].IDProofType)
	})

	t.Run("non-waived primary is left alone", func(t *testing.T) {
		state := registration.State{
			Guests: []registration.GuestForm{
				{
					Variant:    registration.NewGuest,
					FrontImage: "stored/front.jpg",
					BackImage:  "stored/back.jpg",
				},
			},
		}

		merged := service.MergeResolvedDocuments(state, resolved)

		assert.Equal(t, "stored/front.jpg", merged.Guests[0].FrontImage)
		assert.Equal(t, "stored/back.jpg", merged.Guests[0].BackImage)
	})
}

func TestTariff(t *testing.T) {
	room := roomModel.Room{
		ID:           "room-1",
		BasePrice:    1000,
		ACCharge:     150,
		GeyserCharge: 100,
	}

	tests := []struct {
		name       string
		acOpted    bool
		geyser     bool
		wantAC     float64
		wantGeyser float64
		wantTotal  float64
	}{
		{name: "no amenities", wantTotal: 1000},
		{name: "ac only", acOpted: true, wantAC: 150, wantTotal: 1150},
		{name: "geyser only", geyser: true, wantGeyser: 100, wantTotal: 1100},
		{name: "ac and geyser", acOpted: true, geyser: true, wantAC: 150, wantGeyser: 100, wantTotal: 1250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acCharge, geyserCharge, total := service.Tariff(room, tt.acOpted, tt.geyser)

			assert.InDelta(t, tt.wantAC, acCharge, 0.001)
			assert.InDelta(t, tt.wantGeyser, geyserCharge, 0.001)
			assert.InDelta(t, tt.wantTotal, total, 0.001)
		})
	}
}

func TestBookingService_Checkout_Guards(t *testing.T) {
	checkedIn := model.Booking{
		ID:          "booking-1",
		RoomID:      "room-1",
		Status:      constant.BookingStatusCheckedIn,
		TotalAmount: 1100,
		AdvancePaid: 500,
	}

	tests := []struct {
		name      string
		req       dto.CheckoutBookingRequest
		setupMock func(f bookingFixture)
		wantCode  int
	}{
		{
			name: "booking not found",
			req:  dto.CheckoutBookingRequest{RoomID: "room-1"},
			setupMock: func(f bookingFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "booking already checked out",
			req:  dto.CheckoutBookingRequest{RoomID: "room-1"},
			setupMock: func(f bookingFixture) {
				checkedOut := checkedIn
				checkedOut.Status = constant.BookingStatusCheckedOut

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(checkedOut, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "room does not belong to booking",
			req:  dto.CheckoutBookingRequest{RoomID: "room-2"},
			setupMock: func(f bookingFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(checkedIn, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "booking lookup failure",
			req:  dto.CheckoutBookingRequest{RoomID: "room-1"},
			setupMock: func(f bookingFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Checkout(testContext(), tt.req, "booking-1")

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestBookingService_Draft(t *testing.T) {
	f := newBookingFixture(t)

	t.Run("empty form scores zero", func(t *testing.T) {
		res := f.svc.Draft(testContext(), dto.DraftBookingRequest{})

		assert.Equal(t, 0, res.Progress)
		assert.False(t, res.CanSubmit)
		assert.NotEmpty(t, res.Message)
	})

	t.Run("partial form reports what is missing", func(t *testing.T) {
		req := dto.DraftBookingRequest{
			Guests: []dto.BookingGuestRequest{
				{FullName: "Ramesh Kumar", PhoneNumber: "9876543210"},
			},
			ExpectedCheckout: time.Now().Add(24 * time.Hour).Format(constant.DateFormat),
		}

		res := f.svc.Draft(testContext(), req)

		assert.Equal(t, 45, res.Progress)
		assert.False(t, res.CanSubmit)
		assert.False(t, res.Complete)
		assert.NotEmpty(t, res.Message)
	})

	t.Run("documented form is submittable", func(t *testing.T) {
		req := dto.DraftBookingRequest{
			Guests: []dto.BookingGuestRequest{
				{
					FullName:      "Ramesh Kumar",
					PhoneNumber:   "9876543210",
					IDProofType:   constant.IDProofAadhaar,
					IDProofNumber: "1234-5678-9012",
					FrontImage:    "stored/front.jpg",
					BackImage:     "stored/back.jpg",
				},
			},
			ExpectedCheckout: time.Now().Add(24 * time.Hour).Format(constant.DateFormat),
		}

		res := f.svc.Draft(testContext(), req)

		assert.Equal(t, 100, res.Progress)
		assert.True(t, res.CanSubmit)
		assert.True(t, res.Complete)
		assert.Empty(t, res.Message)
	})

	t.Run("returning verified guest skips documents", func(t *testing.T) {
		req := dto.DraftBookingRequest{
			Guests: []dto.BookingGuestRequest{
				{
					Variant:         "returning_verified",
					ResolvedGuestID: "7f0c9f9a-6f4e-4d43-9a93-0b8f6f0a8f22",
					FullName:        "Sita Devi",
					PhoneNumber:     "9123456780",
				},
			},
			ExpectedCheckout: time.Now().Add(24 * time.Hour).Format(constant.DateFormat),
		}

		res := f.svc.Draft(testContext(), req)

		assert.Equal(t, 100, res.Progress)
		assert.True(t, res.CanSubmit)
	})
}

func TestBookingService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f bookingFixture)
		wantErr   bool
	}{
		{
			name: "cache hit skips the repository",
			setupMock: func(f bookingFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "cache miss falls through to the repository",
			setupMock: func(f bookingFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{
						ID:          "booking-1",
						RoomID:      "room-1",
						Status:      constant.BookingStatusCheckedIn,
						CheckIn:     timezone.Now(),
						TotalAmount: 1100,
					}, nil)

				f.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "unknown booking",
			setupMock: func(f bookingFixture) {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Get(testContext(), "booking-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_GetAll(t *testing.T) {
	f := newBookingFixture(t)

	params := gDto.QueryParams{Limit: 10, Page: 1}

	f.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)

	f.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{
			{
				ID:          "booking-1",
				RoomID:      "room-1",
				RoomNumber:  "101",
				RoomType:    "standard",
				Status:      constant.BookingStatusCheckedIn,
				CheckIn:     timezone.Now(),
				TotalAmount: 1100,
				AdvancePaid: 500,
			},
		}, nil)

	f.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	res, err := f.svc.GetAll(testContext(), params, gDto.FilterGroup{})

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	assert.Equal(t, "booking-1", res.Bookings[0].ID)
	assert.InDelta(t, 600.0, res.Bookings[0].BalanceDue, 0.001)
}
