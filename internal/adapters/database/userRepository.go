package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"snapfeed/internal/apperr"
	"snapfeed/internal/core/user"
)

// UserRepositoryDatabase implements the user port on gorm.
type UserRepositoryDatabase struct {
	db *gorm.DB
}

func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		// A concurrent signup can slip past the service's pre-check;
		// the unique index is the final arbiter.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.KindConflict, "username already taken")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "create user", err)
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "user %q not found", username)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "find user by username", err)
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id uint64) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "user %d not found", id)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "find user by id", err)
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*user.User, error) {
	byID := make(map[uint64]*user.User, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var users []*user.User
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "find users by ids", err)
	}
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func (repo *UserRepositoryDatabase) TouchLastActivity(ctx context.Context, id uint64, at time.Time) error {
	err := repo.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", id).
		UpdateColumn("last_activity", at).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "touch last_activity", err)
	}
	return nil
}
