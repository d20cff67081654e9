package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yeka/zip"

	"lodge/internal/domains/export/model/dto"
	"lodge/shared/constant"
)

// renderArchive bundles every record's front and back identification images
// into per-room folders. A non-empty password switches the entries to
// AES-256 encryption.
func (s *serviceImpl) renderArchive(ctx context.Context, records []dto.Record, password string) ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, record := range records {
		sides := map[string]string{
			constant.ImageSideFront: record.FrontImage,
			constant.ImageSideBack:  record.BackImage,
		}

		for side, ref := range sides {
			data, contentType, err := s.fetchImage(ctx, ref)
			if err != nil {
				log.Error().Err(err).Str("booking_id", record.BookingID).Str("side", side).
					Msg("failed to fetch id image for archive, skipping entry")

				continue
			}

			name := fmt.Sprintf("room-%s/%s-%s.%s",
				record.RoomNumber, archiveSlug(record.GuestName), side, extensionFor(contentType))

			var entry io.Writer

			if password != constant.Empty {
				entry, err = writer.Encrypt(name, password, zip.AES256Encryption)
			} else {
				entry, err = writer.Create(name)
			}

			if err != nil {
				return nil, fmt.Errorf("failed to create archive entry: %w", err)
			}

			if _, err = entry.Write(data); err != nil {
				return nil, fmt.Errorf("failed to write archive entry: %w", err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}

	return buf.Bytes(), nil
}

func archiveSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "/", "-")

	if slug == constant.Empty {
		return "guest"
	}

	return slug
}

func extensionFor(contentType string) string {
	if contentType == "image/png" {
		return "png"
	}

	return "jpg"
}
