package comment

import "time"

type Comment struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"index;not null"`
	PostID    uint64 `gorm:"index;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (Comment) TableName() string { return "comments" }
