package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snapfeed/internal/adapters/httpapi/middleware"
	"snapfeed/internal/core/auth"
	userEntity "snapfeed/internal/core/user"
	commentPort "snapfeed/internal/ports/comment"
	postPort "snapfeed/internal/ports/post"
	storagePort "snapfeed/internal/ports/storage"
	userPort "snapfeed/internal/ports/user"
)

// Inbound ports: what the controllers need from the use cases.

type UserUseCase interface {
	SignUp(ctx context.Context, in userPort.SignUpInput) (*userPort.UserDTO, error)
	Login(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	Profile(ctx context.Context, current *userEntity.User) (*userPort.UserDTO, error)
	Subscribe(ctx context.Context, current *userEntity.User, authorID uint64) error
	Unsubscribe(ctx context.Context, current *userEntity.User, authorID uint64) error
}

type PostUseCase interface {
	Create(ctx context.Context, current *userEntity.User, content string, uploads []postPort.Upload) (*postPort.PostDTO, error)
	List(ctx context.Context, current *userEntity.User, authorID *uint64) (*postPort.ResponsePosts, error)
	ToggleLike(ctx context.Context, current *userEntity.User, postID uint64, like bool) error
}

type CommentUseCase interface {
	Create(ctx context.Context, current *userEntity.User, postID uint64, content string) (*commentPort.CommentDTO, error)
	List(ctx context.Context, current *userEntity.User, postID uint64) ([]commentPort.CommentViewDTO, error)
	Delete(ctx context.Context, current *userEntity.User, postID, commentID uint64) error
}

// SetupRoutes wires the controllers; use cases are injected from main.
func SetupRoutes(
	userUC UserUseCase,
	postUC PostUseCase,
	commentUC CommentUseCase,
	tokens *auth.TokenService,
	users userPort.UserRepository,
	store storagePort.FileStore,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.Default()
	uc := NewUserController(userUC, logger)
	pc := NewPostController(postUC, logger)
	cc := NewCommentController(commentUC, logger)
	fc := NewFileController(store, logger)

	authRequired := middleware.JWTAuth(tokens, users, logger)

	api := r.Group("/api/v1")
	{
		api.POST("/users/signup/", uc.SignUp)
		api.POST("/users/login/", uc.Login)
		api.GET("/users/me/", authRequired, uc.Me)
		api.POST("/users/:author_id/subscribe/", authRequired, uc.Subscribe)
		api.POST("/users/:author_id/unsubscribe/", authRequired, uc.Unsubscribe)

		api.GET("/posts/", authRequired, pc.List)
		api.POST("/posts/create/", authRequired, pc.Create)
		api.POST("/posts/:post_id/like/", authRequired, pc.Like)

		api.POST("/posts/:post_id/comments/", authRequired, cc.Create)
		api.GET("/posts/:post_id/comments/", authRequired, cc.List)
		api.DELETE("/posts/:post_id/comments/:comment_id", authRequired, cc.Delete)
	}

	r.GET("/media_files/:filename", fc.Get)

	return r
}
