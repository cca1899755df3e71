package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"snapfeed/internal/apperr"
	"snapfeed/internal/core/comment"
)

// CommentRepositoryDatabase implements the comment port on gorm.
type CommentRepositoryDatabase struct {
	db *gorm.DB
}

func NewCommentRepositoryDatabase(db *gorm.DB) *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{db: db}
}

func (repo *CommentRepositoryDatabase) Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	if err := repo.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create comment", err)
	}
	return c, nil
}

func (repo *CommentRepositoryDatabase) FindByPostAndID(ctx context.Context, postID, commentID uint64) (*comment.Comment, error) {
	var c comment.Comment
	err := repo.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "comment %d not found", commentID)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "find comment", err)
	}
	return &c, nil
}

func (repo *CommentRepositoryDatabase) ListByPostID(ctx context.Context, postID uint64) ([]*comment.Comment, error) {
	var comments []*comment.Comment
	err := repo.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at, id").
		Find(&comments).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list comments", err)
	}
	return comments, nil
}

// CountByPostIDs aggregates comment counts in a single GROUP BY query.
func (repo *CommentRepositoryDatabase) CountByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	byPost := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}
	var rows []struct {
		PostID uint64
		Count  int64
	}
	err := repo.db.WithContext(ctx).Model(&comment.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "count comments", err)
	}
	for _, r := range rows {
		byPost[r.PostID] = r.Count
	}
	return byPost, nil
}

func (repo *CommentRepositoryDatabase) Delete(ctx context.Context, postID, commentID uint64) error {
	err := repo.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		Delete(&comment.Comment{}).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete comment", err)
	}
	return nil
}
