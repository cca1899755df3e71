package commentapp

import (
	"context"

	"go.uber.org/zap"

	"snapfeed/internal/apperr"
	commentEntity "snapfeed/internal/core/comment"
	userEntity "snapfeed/internal/core/user"
	commentPort "snapfeed/internal/ports/comment"
	postPort "snapfeed/internal/ports/post"
	userPort "snapfeed/internal/ports/user"
)

type CommentService struct {
	comments commentPort.CommentRepository
	posts    postPort.PostRepository
	users    userPort.UserRepository
	logger   *zap.Logger
}

func NewCommentService(
	comments commentPort.CommentRepository,
	posts postPort.PostRepository,
	users userPort.UserRepository,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		logger:   logger,
	}
}

// Create adds a comment by current on postID. The post must exist;
// inserting against a missing post would orphan the row.
func (s *CommentService) Create(ctx context.Context, current *userEntity.User, postID uint64, content string) (*commentPort.CommentDTO, error) {
	if content == "" {
		return nil, apperr.New(apperr.KindValidation, "comment content is required")
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	c := &commentEntity.Comment{
		UserID:  current.ID,
		PostID:  postID,
		Content: content,
	}
	created, err := s.comments.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	return &commentPort.CommentDTO{
		ID:        created.ID,
		Content:   created.Content,
		CreatedAt: created.CreatedAt,
		UserID:    created.UserID,
		PostID:    created.PostID,
	}, nil
}

// List returns the post's comments in creation order, each with the
// author's name and whether current wrote it.
func (s *CommentService) List(ctx context.Context, current *userEntity.User, postID uint64) ([]commentPort.CommentViewDTO, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uint64, 0, len(comments))
	seen := make(map[uint64]bool, len(comments))
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			authorIDs = append(authorIDs, c.UserID)
		}
	}
	authors, err := s.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]commentPort.CommentViewDTO, 0, len(comments))
	for _, c := range comments {
		authorName := ""
		if a, ok := authors[c.UserID]; ok {
			authorName = a.Fullname
		}
		views = append(views, commentPort.CommentViewDTO{
			CommentDTO: commentPort.CommentDTO{
				ID:        c.ID,
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
				UserID:    c.UserID,
				PostID:    c.PostID,
			},
			AuthorName: authorName,
			Owner:      c.UserID == current.ID,
		})
	}
	return views, nil
}

// Delete removes a comment. Ownership is checked before the delete,
// never after.
func (s *CommentService) Delete(ctx context.Context, current *userEntity.User, postID, commentID uint64) error {
	c, err := s.comments.FindByPostAndID(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if c.UserID != current.ID {
		return apperr.New(apperr.KindForbidden, "you cannot delete this comment")
	}
	if err := s.comments.Delete(ctx, postID, commentID); err != nil {
		return err
	}
	s.logger.Info("comment deleted", zap.Uint64("comment", commentID), zap.Uint64("post", postID))
	return nil
}
