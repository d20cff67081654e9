package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	bookingModel "lodge/internal/domains/booking/model"
	"lodge/internal/domains/guest/model"
	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
)

type Guest interface {
	Insert(ctx context.Context, model model.Guest) error
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.Guest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Guest, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Guest, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	LookupByPhone(ctx context.Context, phoneNumber string) (model.LookupRow, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Guest]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Guest {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Guest](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LookupByPhone returns the most recent guest record for the given phone
// number along with the first and last check-in across all of their stays.
// No match yields the zero row and a nil error.
func (repo *repositoryImpl) LookupByPhone(ctx context.Context, phoneNumber string) (row model.LookupRow, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".guest.LookupByPhone")
	defer scope.End()

	query := fmt.Sprintf(`
		SELECT g.id, g.full_name, g.phone_number, g.id_verified, g.id_proof_type,
		       g.id_front_image, g.id_back_image,
		       stays.first_stay_at, stays.last_stay_at
		FROM %[1]s g
		JOIN (
			SELECT g2.phone_number, MIN(b.check_in) AS first_stay_at, MAX(b.check_in) AS last_stay_at
			FROM %[1]s g2
			JOIN %[2]s b ON b.id = g2.booking_id
			WHERE g2.phone_number = :phone_number
			GROUP BY g2.phone_number
		) stays ON stays.phone_number = g.phone_number
		WHERE g.phone_number = :phone_number
		ORDER BY g.created_at DESC
		LIMIT 1`, model.TableName, bookingModel.TableName)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return row, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &row, map[string]any{model.FieldPhoneNumber: phoneNumber})
	if errors.Is(err, sql.ErrNoRows) {
		return model.LookupRow{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return row, fmt.Errorf("failed to look up guest by phone: %w", err)
	}

	return row, nil
}
