package comment

import (
	"context"
	"time"

	"snapfeed/internal/core/comment"
)

type CommentRepository interface {
	Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error)
	FindByPostAndID(ctx context.Context, postID, commentID uint64) (*comment.Comment, error)
	ListByPostID(ctx context.Context, postID uint64) ([]*comment.Comment, error)
	CountByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	Delete(ctx context.Context, postID, commentID uint64) error
}

// DTOs for the use cases.
type CommentDTO struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint64    `json:"user_id"`
	PostID    uint64    `json:"post_id"`
}

// CommentViewDTO is the listing shape: author identity plus whether
// the requesting user owns the comment.
type CommentViewDTO struct {
	CommentDTO
	AuthorName string `json:"author_name"`
	Owner      bool   `json:"owner"`
}
