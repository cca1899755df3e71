package post

import (
	"context"
	"time"

	"snapfeed/internal/core/post"
)

// PostRepository is the outbound port for posts, attachments and
// likes. The batched lookups exist so list assembly issues one query
// per relation, not one per post.
type PostRepository interface {
	// CreateWithAttachments inserts the post and its files rows in one
	// transaction.
	CreateWithAttachments(ctx context.Context, p *post.Post, files []post.MediaFile) (*post.Post, error)
	FindByID(ctx context.Context, id uint64) (*post.Post, error)
	List(ctx context.Context, authorID *uint64) ([]*post.Post, error)
	AttachmentsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64][]post.MediaFile, error)
	LikersByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64][]uint64, error)
	// SetLike moves the (user, post) like fact to the target state.
	// Already-there is a silent success.
	SetLike(ctx context.Context, userID, postID uint64, liked bool) error
}

// Upload is one incoming media file, already read off the wire.
type Upload struct {
	Filename string
	Data     []byte
}

// DTOs for the use cases.
type PostDTO struct {
	ID            uint64    `json:"id"`
	Images        []string  `json:"images"`
	Content       string    `json:"content"`
	AuthorID      uint64    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	CreatedAt     time.Time `json:"created_at"`
	CountLikes    int       `json:"count_likes"`
	Liked         bool      `json:"liked"`
	CountComments int64     `json:"count_comments"`
}

type ResponsePosts struct {
	Posts []PostDTO `json:"posts"`
}
