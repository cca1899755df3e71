package user

import "time"

// User is the stored identity. Password always holds the bcrypt hash;
// the plaintext never reaches this struct.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Fullname     string `gorm:"not null"`
	Password     string `gorm:"not null" json:"-"`
	Birthday     *time.Time
	Bio          string `gorm:"type:text"`
	SignupAt     time.Time
	LastActivity time.Time
	Avatar       *string
}

func (User) TableName() string { return "users" }

// Subscribe is a directed follow edge. The composite primary key keeps
// at most one edge per ordered (subscriber, author) pair.
type Subscribe struct {
	SubscriberID uint64 `gorm:"primaryKey;autoIncrement:false"`
	AuthorID     uint64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt    time.Time
}

func (Subscribe) TableName() string { return "subscribes" }
