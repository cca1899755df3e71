package post

import (
	"time"

	"github.com/gofrs/uuid"
)

// Post is an immutable content unit. Relations stay foreign-key
// fields; authors, attachments and likes are loaded per transaction.
type Post struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Content   string `gorm:"type:text"`
	AuthorID  uint64 `gorm:"index;not null"`
	CreatedAt time.Time
}

func (Post) TableName() string { return "posts" }

// MediaFile names one stored attachment. The identifier is generated
// server-side; Position keeps the upload order stable.
type MediaFile struct {
	UUID      uuid.UUID `gorm:"primaryKey;type:char(36)"`
	Extension string    `gorm:"size:16;not null"`
	PostID    uint64    `gorm:"index;not null"`
	Position  int       `gorm:"not null"`
}

func (MediaFile) TableName() string { return "files" }

// Filename is the retrievable name under the media root.
func (f MediaFile) Filename() string { return f.UUID.String() + "." + f.Extension }

// Like is a membership fact, not a counter. The composite primary key
// is the arbiter under concurrent toggles.
type Like struct {
	UserID uint64 `gorm:"primaryKey;autoIncrement:false"`
	PostID uint64 `gorm:"primaryKey;autoIncrement:false"`
}

func (Like) TableName() string { return "likes" }
