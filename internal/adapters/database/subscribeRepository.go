package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"snapfeed/internal/apperr"
	"snapfeed/internal/core/user"
)

// SubscribeRepositoryDatabase implements the subscribe port on gorm.
type SubscribeRepositoryDatabase struct {
	db *gorm.DB
}

func NewSubscribeRepositoryDatabase(db *gorm.DB) *SubscribeRepositoryDatabase {
	return &SubscribeRepositoryDatabase{db: db}
}

// Subscribe inserts the edge unless it is already there. The
// read-then-insert runs in one transaction; a duplicate-key failure
// from a concurrent subscriber means the edge exists, which is the
// state the caller asked for.
func (repo *SubscribeRepositoryDatabase) Subscribe(ctx context.Context, subscriberID, authorID uint64) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&user.Subscribe{}).
			Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&user.Subscribe{SubscriberID: subscriberID, AuthorID: authorID}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "subscribe", err)
	}
	return nil
}

// Unsubscribe deletes the edge; a missing edge is a silent success.
func (repo *SubscribeRepositoryDatabase) Unsubscribe(ctx context.Context, subscriberID, authorID uint64) error {
	err := repo.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&user.Subscribe{}).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "unsubscribe", err)
	}
	return nil
}

func (repo *SubscribeRepositoryDatabase) IsSubscribed(ctx context.Context, subscriberID, authorID uint64) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&user.Subscribe{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "check subscription", err)
	}
	return count > 0, nil
}
