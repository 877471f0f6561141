package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the GORM handle shared by domain repositories. The handle may
// be a transaction, in which case every query runs inside it.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the handle bound to ctx.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Raw returns the handle without a context binding.
func (b Base) Raw() *gorm.DB {
	return b.db
}
