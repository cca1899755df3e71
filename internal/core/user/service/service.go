package userapp

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"snapfeed/internal/apperr"
	"snapfeed/internal/core/auth"
	userEntity "snapfeed/internal/core/user"
	userPort "snapfeed/internal/ports/user"
)

// UserService covers identity: signup, login and the social graph
// edges that hang directly off users.
type UserService struct {
	users      userPort.UserRepository
	subs       userPort.SubscribeRepository
	tokens     *auth.TokenService
	bcryptCost int
	logger     *zap.Logger
}

func NewUserService(
	users userPort.UserRepository,
	subs userPort.SubscribeRepository,
	tokens *auth.TokenService,
	bcryptCost int,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:      users,
		subs:       subs,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// SignUp creates a new account. The username pre-check gives a clean
// conflict message; the unique index catches the race the pre-check
// cannot.
func (s *UserService) SignUp(ctx context.Context, in userPort.SignUpInput) (*userPort.UserDTO, error) {
	if in.Password != in.PasswordRepeat {
		return nil, apperr.New(apperr.KindValidation, "passwords must match")
	}
	if in.Username == "" || in.Password == "" {
		return nil, apperr.New(apperr.KindValidation, "username and password are required")
	}

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, apperr.New(apperr.KindConflict, "username already taken")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	now := time.Now().UTC()
	u := &userEntity.User{
		Username:     in.Username,
		Fullname:     in.Fullname,
		Password:     string(hash),
		Birthday:     in.Birthday,
		Bio:          in.Bio,
		SignupAt:     now,
		LastActivity: now,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user signed up", zap.Uint64("id", created.ID), zap.String("username", created.Username))
	return toUserDTO(created), nil
}

// Login verifies the credentials and issues a bearer token. User
// lookup failure and password mismatch are deliberately the same
// error.
func (s *UserService) Login(ctx context.Context, username, password string) (*userPort.LoginResponse, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.New(apperr.KindAuth, "incorrect username or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Info("login rejected", zap.String("username", username))
		return nil, apperr.New(apperr.KindAuth, "incorrect username or password")
	}

	token, expiresAt, err := s.tokens.Issue(u.Username)
	if err != nil {
		return nil, err
	}
	return &userPort.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Profile returns the serializable view of a user.
func (s *UserService) Profile(ctx context.Context, current *userEntity.User) (*userPort.UserDTO, error) {
	return toUserDTO(current), nil
}

// Subscribe adds the edge current→author. Requesting an existing edge
// succeeds without a duplicate.
func (s *UserService) Subscribe(ctx context.Context, current *userEntity.User, authorID uint64) error {
	if current.ID == authorID {
		return apperr.New(apperr.KindValidation, "cannot subscribe to yourself")
	}
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		return err
	}
	return s.subs.Subscribe(ctx, current.ID, authorID)
}

// Unsubscribe removes the edge; removing a missing edge succeeds.
func (s *UserService) Unsubscribe(ctx context.Context, current *userEntity.User, authorID uint64) error {
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		return err
	}
	return s.subs.Unsubscribe(ctx, current.ID, authorID)
}

func toUserDTO(u *userEntity.User) *userPort.UserDTO {
	return &userPort.UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		Fullname:     u.Fullname,
		Bio:          u.Bio,
		SignupAt:     u.SignupAt,
		LastActivity: u.LastActivity,
		Avatar:       u.Avatar,
		Birthday:     u.Birthday,
	}
}
