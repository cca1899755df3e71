package postapp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"snapfeed/internal/adapters/database"
	"snapfeed/internal/adapters/storage"
	"snapfeed/internal/apperr"
	commentEntity "snapfeed/internal/core/comment"
	postEntity "snapfeed/internal/core/post"
	userEntity "snapfeed/internal/core/user"
	postPort "snapfeed/internal/ports/post"
)

type fixture struct {
	svc       *PostService
	db        *gorm.DB
	mediaRoot string
	alice     *userEntity.User
	bob       *userEntity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&userEntity.User{},
		&userEntity.Subscribe{},
		&postEntity.Post{},
		&postEntity.MediaFile{},
		&postEntity.Like{},
		&commentEntity.Comment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mediaRoot := t.TempDir()
	store, err := storage.NewDiskStore(mediaRoot)
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}

	svc := NewPostService(
		database.NewPostRepositoryDatabase(db),
		database.NewUserRepositoryDatabase(db),
		database.NewCommentRepositoryDatabase(db),
		store,
		zap.NewNop(),
	)

	f := &fixture{svc: svc, db: db, mediaRoot: mediaRoot}
	f.alice = f.addUser(t, "alice", "Alice Example")
	f.bob = f.addUser(t, "bob", "Bob Example")
	return f
}

func (f *fixture) addUser(t *testing.T, username, fullname string) *userEntity.User {
	t.Helper()
	u := &userEntity.User{
		Username: username,
		Fullname: fullname,
		Password: "x",
		SignupAt: time.Now().UTC(),
	}
	if err := f.db.Create(u).Error; err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return u
}

func TestCreatePostWithAttachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Create(ctx, f.alice, "hello", []postPort.Upload{
		{Filename: "first.JPG", Data: []byte("jpeg-bytes")},
		{Filename: "second.png", Data: []byte("png-bytes")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(dto.Images) != 2 {
		t.Fatalf("images = %v, want 2 filenames", dto.Images)
	}
	if dto.Content != "hello" || dto.AuthorID != f.alice.ID || dto.AuthorName != "Alice Example" {
		t.Errorf("unexpected dto: %+v", dto)
	}

	// Bytes are on disk under the generated names.
	for i, name := range dto.Images {
		data, err := os.ReadFile(filepath.Join(f.mediaRoot, name))
		if err != nil {
			t.Fatalf("read %q: %v", name, err)
		}
		want := []string{"jpeg-bytes", "png-bytes"}[i]
		if string(data) != want {
			t.Errorf("file %q = %q, want %q", name, data, want)
		}
	}

	// Attachment rows keep the upload order via position.
	var files []postEntity.MediaFile
	if err := f.db.Where("post_id = ?", dto.ID).Order("position").Find(&files).Error; err != nil {
		t.Fatalf("load files: %v", err)
	}
	if len(files) != 2 || files[0].Extension != "jpg" || files[1].Extension != "png" {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestCreatePostRejectsExtensionlessFile(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), f.alice, "", []postPort.Upload{
		{Filename: "noext", Data: []byte("x")},
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestListPostsEnrichment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.alice, "hello", []postPort.Upload{
		{Filename: "a.jpg", Data: []byte("a")},
		{Filename: "b.jpg", Data: []byte("b")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := f.svc.List(ctx, f.bob, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Posts) != 1 {
		t.Fatalf("posts = %d, want 1", len(res.Posts))
	}
	p := res.Posts[0]
	if len(p.Images) != 2 || p.CountLikes != 0 || p.Liked || p.CountComments != 0 {
		t.Fatalf("fresh post view: %+v", p)
	}

	// Bob likes it: count goes to 1, liked flag depends on the viewer.
	if err := f.svc.ToggleLike(ctx, f.bob, created.ID, true); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}

	forBob, err := f.svc.List(ctx, f.bob, nil)
	if err != nil {
		t.Fatalf("List for bob: %v", err)
	}
	if forBob.Posts[0].CountLikes != 1 || !forBob.Posts[0].Liked {
		t.Errorf("bob's view: %+v", forBob.Posts[0])
	}

	forAlice, err := f.svc.List(ctx, f.alice, nil)
	if err != nil {
		t.Fatalf("List for alice: %v", err)
	}
	if forAlice.Posts[0].CountLikes != 1 || forAlice.Posts[0].Liked {
		t.Errorf("alice's view: %+v", forAlice.Posts[0])
	}
}

func TestListPostsCommentCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.alice, "hello", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 3; i++ {
		c := &commentEntity.Comment{UserID: f.bob.ID, PostID: created.ID, Content: "nice"}
		if err := f.db.Create(c).Error; err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}

	res, err := f.svc.List(ctx, f.alice, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Posts[0].CountComments != 3 {
		t.Fatalf("count_comments = %d, want 3", res.Posts[0].CountComments)
	}
}

func TestListPostsAuthorFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.alice, "by alice", nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.Create(ctx, f.bob, "by bob", nil); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := f.svc.List(ctx, f.alice, &f.bob.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Posts) != 1 || res.Posts[0].AuthorID != f.bob.ID {
		t.Fatalf("filtered posts: %+v", res.Posts)
	}

	unknown := uint64(9999)
	if _, err := f.svc.List(ctx, f.alice, &unknown); !apperr.IsNotFound(err) {
		t.Fatalf("unknown author: got %v, want not found", err)
	}
}

func TestToggleLikeIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.alice, "hello", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	likeCount := func() int64 {
		var n int64
		f.db.Model(&postEntity.Like{}).Count(&n)
		return n
	}

	// Liking twice produces exactly one row.
	for i := 0; i < 2; i++ {
		if err := f.svc.ToggleLike(ctx, f.bob, created.ID, true); err != nil {
			t.Fatalf("ToggleLike(true) #%d: %v", i, err)
		}
	}
	if n := likeCount(); n != 1 {
		t.Fatalf("likes after double like = %d, want 1", n)
	}

	// Unliking twice leaves zero rows.
	for i := 0; i < 2; i++ {
		if err := f.svc.ToggleLike(ctx, f.bob, created.ID, false); err != nil {
			t.Fatalf("ToggleLike(false) #%d: %v", i, err)
		}
	}
	if n := likeCount(); n != 0 {
		t.Fatalf("likes after double unlike = %d, want 0", n)
	}

	// Alternating pairs net out to zero.
	for _, state := range []bool{true, false, true, false} {
		if err := f.svc.ToggleLike(ctx, f.bob, created.ID, state); err != nil {
			t.Fatalf("ToggleLike(%v): %v", state, err)
		}
	}
	if n := likeCount(); n != 0 {
		t.Fatalf("likes after alternation = %d, want 0", n)
	}
}

func TestToggleLikeUnknownPost(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.ToggleLike(context.Background(), f.bob, 9999, true); !apperr.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}
