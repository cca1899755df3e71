package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"snapfeed/internal/apperr"
	"snapfeed/internal/core/post"
)

// PostRepositoryDatabase implements the post port on gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

// CreateWithAttachments inserts the post and its files rows in one
// transaction so a failed attachment insert rolls back the post too.
func (repo *PostRepositoryDatabase) CreateWithAttachments(ctx context.Context, p *post.Post, files []post.MediaFile) (*post.Post, error) {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for i := range files {
			files[i].PostID = p.ID
			if err := tx.Create(&files[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create post", err)
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uint64) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "post %d not found", id)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "find post", err)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) List(ctx context.Context, authorID *uint64) ([]*post.Post, error) {
	q := repo.db.WithContext(ctx).Order("id")
	if authorID != nil {
		q = q.Where("author_id = ?", *authorID)
	}
	var posts []*post.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list posts", err)
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) AttachmentsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64][]post.MediaFile, error) {
	byPost := make(map[uint64][]post.MediaFile, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}
	var files []post.MediaFile
	err := repo.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("post_id, position").
		Find(&files).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load attachments", err)
	}
	for _, f := range files {
		byPost[f.PostID] = append(byPost[f.PostID], f)
	}
	return byPost, nil
}

func (repo *PostRepositoryDatabase) LikersByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64][]uint64, error) {
	byPost := make(map[uint64][]uint64, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}
	var likes []post.Like
	if err := repo.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&likes).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load likes", err)
	}
	for _, l := range likes {
		byPost[l.PostID] = append(byPost[l.PostID], l.UserID)
	}
	return byPost, nil
}

// SetLike makes the like fact match the target state in one
// transaction. A duplicate-key on insert means a concurrent request
// already got us there.
func (repo *PostRepositoryDatabase) SetLike(ctx context.Context, userID, postID uint64, liked bool) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&post.Like{}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Count(&count).Error; err != nil {
			return err
		}
		exists := count > 0
		switch {
		case liked && !exists:
			return tx.Create(&post.Like{UserID: userID, PostID: postID}).Error
		case !liked && exists:
			return tx.Where("user_id = ? AND post_id = ?", userID, postID).
				Delete(&post.Like{}).Error
		default:
			return nil
		}
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "set like", err)
	}
	return nil
}
