package userapp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"snapfeed/internal/adapters/database"
	"snapfeed/internal/apperr"
	"snapfeed/internal/core/auth"
	userEntity "snapfeed/internal/core/user"
	userPort "snapfeed/internal/ports/user"
)

func newTestService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&userEntity.User{}, &userEntity.Subscribe{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	users := database.NewUserRepositoryDatabase(db)
	subs := database.NewSubscribeRepositoryDatabase(db)
	tokens := auth.NewTokenService([]byte("test-secret"), 15*time.Minute)
	return NewUserService(users, subs, tokens, bcrypt.MinCost, zap.NewNop()), db
}

func signUp(t *testing.T, svc *UserService, username string) *userPort.UserDTO {
	t.Helper()
	u, err := svc.SignUp(context.Background(), userPort.SignUpInput{
		Username:       username,
		Fullname:       username + " Example",
		Password:       "hunter22",
		PasswordRepeat: "hunter22",
		Bio:            "hello",
	})
	if err != nil {
		t.Fatalf("SignUp(%q): %v", username, err)
	}
	return u
}

func TestSignUpHashesPassword(t *testing.T) {
	svc, db := newTestService(t)
	dto := signUp(t, svc, "alice")

	var stored userEntity.User
	if err := db.First(&stored, dto.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.Password == "hunter22" {
		t.Fatal("password stored as plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	// Re-authenticating with the original plaintext succeeds.
	res, err := svc.Login(context.Background(), "alice", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.TokenType != "bearer" {
		t.Errorf("unexpected login response: %+v", res)
	}
}

func TestSignUpPasswordMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SignUp(context.Background(), userPort.SignUpInput{
		Username:       "alice",
		Fullname:       "Alice",
		Password:       "one",
		PasswordRepeat: "two",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestSignUpDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	signUp(t, svc, "alice")

	_, err := svc.SignUp(context.Background(), userPort.SignUpInput{
		Username:       "alice",
		Fullname:       "Other Alice",
		Password:       "pw",
		PasswordRepeat: "pw",
	})
	if !apperr.IsConflict(err) {
		t.Fatalf("got %v, want conflict", err)
	}
}

func TestSignUpDuplicateRace(t *testing.T) {
	svc, db := newTestService(t)
	signUp(t, svc, "alice")

	// A concurrent signup that slipped past the pre-check hits the
	// unique index at insert; the repository must report a conflict,
	// not crash.
	users := database.NewUserRepositoryDatabase(db)
	_, err := users.Create(context.Background(), &userEntity.User{
		Username: "alice",
		Fullname: "Racer",
		Password: "x",
	})
	if !apperr.IsConflict(err) {
		t.Fatalf("got %v, want conflict", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	signUp(t, svc, "alice")

	if _, err := svc.Login(context.Background(), "alice", "wrong"); !apperr.IsAuth(err) {
		t.Fatalf("wrong password: got %v, want auth error", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "hunter22"); !apperr.IsAuth(err) {
		t.Fatalf("unknown user: got %v, want auth error", err)
	}
}

func TestSubscribeIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	signUp(t, svc, "alice")
	bob := signUp(t, svc, "bob")

	var alice userEntity.User
	if err := db.Where("username = ?", "alice").First(&alice).Error; err != nil {
		t.Fatalf("load alice: %v", err)
	}

	ctx := context.Background()
	if err := svc.Subscribe(ctx, &alice, bob.ID); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := svc.Subscribe(ctx, &alice, bob.ID); err != nil {
		t.Fatalf("second Subscribe: %v", err)
	}

	var count int64
	db.Model(&userEntity.Subscribe{}).Count(&count)
	if count != 1 {
		t.Fatalf("edge count = %d, want 1", count)
	}
}

func TestUnsubscribeMissingEdge(t *testing.T) {
	svc, db := newTestService(t)
	signUp(t, svc, "alice")
	bob := signUp(t, svc, "bob")

	var alice userEntity.User
	if err := db.Where("username = ?", "alice").First(&alice).Error; err != nil {
		t.Fatalf("load alice: %v", err)
	}

	// Never subscribed: silent success.
	if err := svc.Unsubscribe(context.Background(), &alice, bob.ID); err != nil {
		t.Fatalf("Unsubscribe without edge: %v", err)
	}
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	svc, db := newTestService(t)
	signUp(t, svc, "alice")

	var alice userEntity.User
	if err := db.Where("username = ?", "alice").First(&alice).Error; err != nil {
		t.Fatalf("load alice: %v", err)
	}

	if err := svc.Subscribe(context.Background(), &alice, 9999); !apperr.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
	if err := svc.Unsubscribe(context.Background(), &alice, 9999); !apperr.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestSubscribeSelf(t *testing.T) {
	svc, db := newTestService(t)
	signUp(t, svc, "alice")

	var alice userEntity.User
	if err := db.Where("username = ?", "alice").First(&alice).Error; err != nil {
		t.Fatalf("load alice: %v", err)
	}

	if err := svc.Subscribe(context.Background(), &alice, alice.ID); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("self-subscribe: got %v, want validation error", err)
	}
}

func TestSubscribeUnsubscribeRoundTrip(t *testing.T) {
	svc, db := newTestService(t)
	signUp(t, svc, "alice")
	bob := signUp(t, svc, "bob")

	var alice userEntity.User
	if err := db.Where("username = ?", "alice").First(&alice).Error; err != nil {
		t.Fatalf("load alice: %v", err)
	}

	ctx := context.Background()
	if err := svc.Subscribe(ctx, &alice, bob.ID); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := svc.Unsubscribe(ctx, &alice, bob.ID); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}

	var count int64
	db.Model(&userEntity.Subscribe{}).Count(&count)
	if count != 0 {
		t.Fatalf("edge count after unsubscribe = %d, want 0", count)
	}
}
