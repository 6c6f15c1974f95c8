package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"faceswap-api/entities"
)

type BillingRepository interface {
	GetDB() *gorm.DB
	RecordDebitFailure(ctx context.Context, failure *entities.DebitFailure) error
	RecordUsage(ctx context.Context, record *entities.UsageRecord) error
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) BillingRepository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		},
	)
	return &repo{
		db: gormDB,
	}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

func (r *repo) RecordDebitFailure(ctx context.Context, failure *entities.DebitFailure) error {
	if failure.ID == uuid.Nil {
		failure.ID = uuid.New()
	}
	if failure.CreatedAt.IsZero() {
		failure.CreatedAt = time.Now()
	}
	return r.GetDB().WithContext(ctx).Create(failure).Error
}

func (r *repo) RecordUsage(ctx context.Context, record *entities.UsageRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	return r.GetDB().WithContext(ctx).Create(record).Error
}
