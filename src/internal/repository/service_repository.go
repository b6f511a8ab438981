package repository

import (
	"context"
	"database/sql"
	"errors"

	"booking-service/src/internal/entity"
	"booking-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

var ErrServiceNotFound = errors.New("service offering not found")

type ServiceRepository struct {
	DB mysql.DBInterface
}

func NewServiceRepository(db mysql.DBInterface) *ServiceRepository {
	return &ServiceRepository{
		DB: db,
	}
}

func (r *ServiceRepository) Create(ctx context.Context, service *entity.ServiceOffering) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO service_offerings
			(id, provider_id, title, description, kind, price, per_minute_rate,
			commission_rate, duration_minutes, active, created_at, updated_at)
		VALUES (:id, :provider_id, :title, :description, :kind, :price, :per_minute_rate,
			:commission_rate, :duration_minutes, :active, :created_at, :updated_at)
	`
	_, err = sqlx.NamedExecContext(ctx, db, query, service)
	return err
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*entity.ServiceOffering, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var service entity.ServiceOffering
	query := `
		SELECT id, provider_id, title, description, kind, price, per_minute_rate,
			commission_rate, duration_minutes, active, created_at, updated_at
		FROM service_offerings
		WHERE id = ?
	`
	err = db.GetContext(ctx, &service, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &service, nil
}

func (r *ServiceRepository) List(ctx context.Context, providerID, kind string, limit, offset int) ([]entity.ServiceOffering, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, provider_id, title, description, kind, price, per_minute_rate,
			commission_rate, duration_minutes, active, created_at, updated_at
		FROM service_offerings
		WHERE active = 1
	`
	args := []interface{}{}
	if providerID != "" {
		query += ` AND provider_id = ?`
		args = append(args, providerID)
	}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var services []entity.ServiceOffering
	err = db.SelectContext(ctx, &services, query, args...)
	if err != nil {
		return nil, err
	}

	return services, nil
}
