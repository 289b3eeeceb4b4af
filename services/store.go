package services

import (
	"context"

	"daily-menu/models"
)

// MenuStore exposes the package functions as a value so the bot and the HTTP
// API can depend on small interfaces instead of the database.
type MenuStore struct{}

func (MenuStore) LoadDraft(ctx context.Context, adminID int64) ([]byte, bool, error) {
	return LoadMenuDraft(ctx, adminID)
}

func (MenuStore) SaveDraft(ctx context.Context, adminID int64, snapshot []byte) error {
	return SaveMenuDraft(ctx, adminID, snapshot)
}

func (MenuStore) DeleteDraft(ctx context.Context, adminID int64) error {
	return DeleteMenuDraft(ctx, adminID)
}

func (MenuStore) Publish(ctx context.Context, days []models.DayMenu, publishedBy int64) error {
	return PublishMenus(ctx, days, publishedBy)
}

func (MenuStore) ListPublished(ctx context.Context, from string) ([]models.DayMenu, error) {
	return ListPublishedMenus(ctx, from)
}

func (MenuStore) GetPublished(ctx context.Context, date string) (*models.DayMenu, error) {
	return GetPublishedMenu(ctx, date)
}
