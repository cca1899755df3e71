package config

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OpenDB connects to MySQL. TranslateError turns driver duplicate-key
// failures into gorm.ErrDuplicatedKey so the repositories can treat
// constraint violations as domain conflicts.
func OpenDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
}
