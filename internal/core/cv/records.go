package cv

import (
	"context"

	"recruit-cv/internal/database"
	"recruit-cv/internal/database/model"
)

// DBRecords is the gorm-backed Records implementation.
type DBRecords struct{}

func NewDBRecords() DBRecords { return DBRecords{} }

func (DBRecords) CreateCV(ctx context.Context, cv *model.CV) error {
	return database.CreateEntity(ctx, cv)
}

func (DBRecords) GetCVByKey(ctx context.Context, key string) (*model.CV, error) {
	return database.FirstEntity[model.CV](ctx, "`key` = ?", key)
}

func (DBRecords) SetCVStatus(ctx context.Context, key, status string) error {
	return database.UpdateEntity[model.CV](ctx, map[string]interface{}{"status": status}, "`key` = ?", key)
}
