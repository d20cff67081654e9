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
	roomMocks "lodge/internal/domains/room/mocks"
	"lodge/internal/domains/room/model"
	"lodge/internal/domains/room/model/dto"
	"lodge/internal/domains/room/service"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
)

func newRoomService(t *testing.T) (service.Room, *roomMocks.MockRoom, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func TestRoomService_Create(t *testing.T) {
	req := dto.CreateRoomRequest{
		RoomNumber: "101",
		Floor:      1,
		RoomType:   constant.RoomTypeStandard,
		BasePrice:  800,
		ACCharge:   300,
		HasAC:      true,
	}

	tests := []struct {
		name      string
		setupMock func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "duplicate room number",
			setupMock: func(repo *roomMocks.MockRoom, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			setupMock: func(repo *roomMocks.MockRoom, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newRoomService(t)
			tt.setupMock(mockRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Create(ctx, req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	t.Run("defaults to floor ordering", func(t *testing.T) {
		svc, mockRepo, mockCache := newRoomService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(1, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Room, error) {
				assert.Equal(t, "floor, room_number", params.SortBy)
				assert.Equal(t, gDto.SortDirAsc, params.SortDir)

				return []model.Room{
					{
						ID:         "room-1",
						RoomNumber: "101",
						Floor:      1,
						RoomType:   constant.RoomTypeStandard,
						BasePrice:  800,
						Status:     constant.RoomStatusAvailable,
						Metadata: gModel.Metadata{
							CreatedAt:  timezone.Now(),
							ModifiedAt: timezone.Now(),
						},
					},
				}, nil
			})

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		params := gDto.QueryParams{Limit: 10, Page: 1, SortBy: constant.DefaultValueSortBy}
		res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		require.Len(t, res.Rooms, 1)
		assert.Equal(t, "101", res.Rooms[0].RoomNumber)
	})

	t.Run("caller ordering wins", func(t *testing.T) {
		svc, mockRepo, mockCache := newRoomService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(0, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Room, error) {
				assert.Equal(t, model.FieldBasePrice, params.SortBy)

				return []model.Room{}, nil
			})

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10, Page: 1, SortBy: model.FieldBasePrice}, gDto.FilterGroup{})

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}

func TestRoomService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "cache hit",
			setupMock: func(_ *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "found in repository",
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{ID: "room-1", RoomNumber: "101"}, nil)

				cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name: "not found",
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newRoomService(t)
			tt.setupMock(mockRepo, mockCache)

			_, err := svc.Get(context.Background(), "room-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_UpdateStatus(t *testing.T) {
	req := dto.UpdateRoomStatusRequest{Status: constant.RoomStatusMaintenance}

	tests := []struct {
		name      string
		setupMock func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful update",
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{ID: "room-1", Status: constant.RoomStatusAvailable}, nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name: "room not found",
			setupMock: func(repo *roomMocks.MockRoom, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "occupied room cannot be overridden",
			setupMock: func(repo *roomMocks.MockRoom, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{ID: "room-1", Status: constant.RoomStatusOccupied}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newRoomService(t)
			tt.setupMock(mockRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.UpdateStatus(ctx, req, "room-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_UpdatePricing(t *testing.T) {
	basePrice := 900.0

	tests := []struct {
		name      string
		req       dto.UpdateRoomPricingRequest
		setupMock func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful update",
			req:  dto.UpdateRoomPricingRequest{BasePrice: &basePrice},
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name:      "empty request",
			req:       dto.UpdateRoomPricingRequest{},
			setupMock: func(_ *roomMocks.MockRoom, _ *cacheMocks.MockRedisCache) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "room not found",
			req:  dto.UpdateRoomPricingRequest{BasePrice: &basePrice},
			setupMock: func(repo *roomMocks.MockRoom, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newRoomService(t)
			tt.setupMock(mockRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.UpdatePricing(ctx, tt.req, "room-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
