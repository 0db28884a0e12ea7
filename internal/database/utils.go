package database

import "context"

// CreateEntity creates a record for the provided entity type.
func CreateEntity[T any](ctx context.Context, entity *T) error {
	db, err := GetDB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Create(entity).Error
}

// FirstEntity returns a single record of type T matching the query.
func FirstEntity[T any](ctx context.Context, query string, args ...interface{}) (*T, error) {
	db, err := GetDB()
	if err != nil {
		return nil, err
	}
	var out T
	if err := db.WithContext(ctx).Where(query, args...).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEntity updates columns of type T matching the query.
func UpdateEntity[T any](ctx context.Context, updates map[string]interface{}, query string, args ...interface{}) error {
	db, err := GetDB()
	if err != nil {
		return err
	}
	var zero T
	return db.WithContext(ctx).Model(&zero).Where(query, args...).Updates(updates).Error
}
