package postapp

import (
	"context"
	"slices"
	"strings"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"snapfeed/internal/apperr"
	postEntity "snapfeed/internal/core/post"
	userEntity "snapfeed/internal/core/user"
	commentPort "snapfeed/internal/ports/comment"
	postPort "snapfeed/internal/ports/post"
	storagePort "snapfeed/internal/ports/storage"
	userPort "snapfeed/internal/ports/user"
)

type PostService struct {
	posts    postPort.PostRepository
	users    userPort.UserRepository
	comments commentPort.CommentRepository
	store    storagePort.FileStore
	logger   *zap.Logger
}

func NewPostService(
	posts postPort.PostRepository,
	users userPort.UserRepository,
	comments commentPort.CommentRepository,
	store storagePort.FileStore,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		users:    users,
		comments: comments,
		store:    store,
		logger:   logger,
	}
}

// Create writes the uploaded media to the file store, then inserts the
// post and its attachment rows in one transaction. The file writes sit
// outside that transaction; if the commit fails the written files are
// removed best-effort so the store does not accumulate orphans on the
// common failure path. A crash between write and commit can still
// leave files behind.
func (s *PostService) Create(ctx context.Context, current *userEntity.User, content string, uploads []postPort.Upload) (*postPort.PostDTO, error) {
	files := make([]postEntity.MediaFile, 0, len(uploads))
	written := make([]string, 0, len(uploads))

	cleanup := func() {
		for _, name := range written {
			if err := s.store.Remove(name); err != nil {
				s.logger.Warn("orphaned media file left behind", zap.String("file", name), zap.Error(err))
			}
		}
	}

	for i, up := range uploads {
		ext := extensionOf(up.Filename)
		if ext == "" {
			cleanup()
			return nil, apperr.Newf(apperr.KindValidation, "file %q has no extension", up.Filename)
		}
		id, err := uuid.NewV4()
		if err != nil {
			cleanup()
			return nil, apperr.Wrap(apperr.KindInternal, "generate file id", err)
		}
		f := postEntity.MediaFile{UUID: id, Extension: ext, Position: i}
		if err := s.store.Write(f.Filename(), up.Data); err != nil {
			cleanup()
			return nil, err
		}
		written = append(written, f.Filename())
		files = append(files, f)
	}

	p := &postEntity.Post{Content: content, AuthorID: current.ID}
	created, err := s.posts.CreateWithAttachments(ctx, p, files)
	if err != nil {
		cleanup()
		return nil, err
	}

	s.logger.Info("post created",
		zap.Uint64("id", created.ID),
		zap.Uint64("author", current.ID),
		zap.Int("attachments", len(files)))

	dto := s.assemble([]*postEntity.Post{created},
		map[uint64]*userEntity.User{current.ID: current},
		map[uint64][]postEntity.MediaFile{created.ID: files},
		nil, nil, current.ID)
	return &dto[0], nil
}

// List returns all posts, optionally one author's, enriched with
// attachment names, author identity, like/comment counts and the
// caller's liked flag. Relations are batch-loaded per id set, one
// query each, rather than per post.
func (s *PostService) List(ctx context.Context, current *userEntity.User, authorID *uint64) (*postPort.ResponsePosts, error) {
	if authorID != nil {
		if _, err := s.users.FindByID(ctx, *authorID); err != nil {
			return nil, err
		}
	}

	posts, err := s.posts.List(ctx, authorID)
	if err != nil {
		return nil, err
	}

	postIDs := make([]uint64, 0, len(posts))
	authorIDs := make([]uint64, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if !slices.Contains(authorIDs, p.AuthorID) {
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	authors, err := s.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	attachments, err := s.posts.AttachmentsByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	likers, err := s.posts.LikersByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.comments.CountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	dtos := s.assemble(posts, authors, attachments, likers, commentCounts, current.ID)
	return &postPort.ResponsePosts{Posts: dtos}, nil
}

// ToggleLike moves the caller's like on postID to the target state.
// The boolean is the desired state, not a delta, so repeats are safe.
func (s *PostService) ToggleLike(ctx context.Context, current *userEntity.User, postID uint64, like bool) error {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return err
	}
	return s.posts.SetLike(ctx, current.ID, postID, like)
}

func (s *PostService) assemble(
	posts []*postEntity.Post,
	authors map[uint64]*userEntity.User,
	attachments map[uint64][]postEntity.MediaFile,
	likers map[uint64][]uint64,
	commentCounts map[uint64]int64,
	currentUserID uint64,
) []postPort.PostDTO {
	dtos := make([]postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		images := make([]string, 0, len(attachments[p.ID]))
		for _, f := range attachments[p.ID] {
			images = append(images, f.Filename())
		}
		authorName := ""
		if a, ok := authors[p.AuthorID]; ok {
			authorName = a.Fullname
		}
		dtos = append(dtos, postPort.PostDTO{
			ID:            p.ID,
			Images:        images,
			Content:       p.Content,
			AuthorID:      p.AuthorID,
			AuthorName:    authorName,
			CreatedAt:     p.CreatedAt,
			CountLikes:    len(likers[p.ID]),
			Liked:         slices.Contains(likers[p.ID], currentUserID),
			CountComments: commentCounts[p.ID],
		})
	}
	return dtos
}

// extensionOf returns the suffix after the last dot, lowercased.
func extensionOf(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}
