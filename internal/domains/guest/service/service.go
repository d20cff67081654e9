package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/infras/s3"
	"lodge/internal/domains/guest/model/dto"
	"lodge/internal/domains/guest/repository"
	"lodge/shared"
	"lodge/shared/base64"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/phone"
)

const (
	cacheLookupGuest = "guest:lookup"
	cacheGetAllGuest = "guest:gets"
	cacheCountGuest  = "guest:count"
)

type Guest interface {
	Lookup(ctx context.Context, phoneNumber string) (dto.GuestLookupResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetGuestsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo  repository.Guest
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Guest, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Guest {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

// Lookup resolves a returning guest by phone number. It is an optimization
// for the check-in form, so any failure degrades to a not-found result with
// a nil error instead of blocking the flow.
func (s *serviceImpl) Lookup(ctx context.Context, phoneNumber string) (res dto.GuestLookupResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Lookup")
	defer scope.End()

	normalized := phone.Normalize(phoneNumber)
	if normalized == constant.Empty {
		return res, nil
	}

	cacheKey := shared.BuildCacheKey(cacheLookupGuest, normalized)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for guest lookup")

		return res, nil
	}

	row, err := s.repo.LookupByPhone(ctx, normalized)
	if err != nil {
		log.Error().Err(err).Msg("guest lookup failed, treating as not found")

		return dto.GuestLookupResponse{}, nil
	}

	res.FromRow(row)
	res.IDFrontImage = s.presignImage(ctx, res.IDFrontImage)
	res.IDBackImage = s.presignImage(ctx, res.IDBackImage)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.GuestLookupTTL); err != nil {
			log.Error().Err(err).Msg("failed to save guest lookup to cache")
		}
	}()

	return res, nil
}

// presignImage swaps a stored object reference for a short-lived signed URL.
// Inline data and presign failures keep the stored reference.
func (s *serviceImpl) presignImage(ctx context.Context, ref string) string {
	if ref == constant.Empty || base64.IsDataURL(ref) {
		return ref
	}

	objectName := s.s3.GetObjectNameFromURL(constant.Empty, ref)

	url, err := s.s3.GetPresignedURL(ctx, constant.Empty, objectName)
	if err != nil {
		log.Error().Err(err).Msg("failed to presign id image url")

		return ref
	}

	return url
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetGuestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllGuest, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for guests")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count guests")

		return res, fmt.Errorf("failed to count guests: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get guests")

		return res, fmt.Errorf("failed to get guests: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save guests to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountGuest, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for guest count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count guests")

		return res, fmt.Errorf("failed to count guests: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save guest count to cache")
		}
	}()

	return res, nil
}
