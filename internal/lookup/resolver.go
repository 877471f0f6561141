// Package lookup resolves human-facing keys (calendar day, category name,
// product code) to their rows.
package lookup

import (
	"context"
	"errors"
	"strings"

	"github.com/popmakeup/popmakeup-backend/internal/repo"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
	"gorm.io/gorm"
)

// Resolver performs equality lookups. Every lookup column is uniquely
// indexed, so a match is unambiguous.
type Resolver struct {
	repo.Base
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{Base: repo.NewBase(db)}
}

// WithTx returns a resolver bound to tx.
func (r *Resolver) WithTx(tx *gorm.DB) *Resolver {
	return NewResolver(tx)
}

// ResolveDate parses raw as YYYY-MM-DD and returns its calendar row.
func (r *Resolver) ResolveDate(ctx context.Context, raw string) (*models.CalendarDate, error) {
	day, err := types.ParseDay(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return r.ResolveDay(ctx, day)
}

func (r *Resolver) ResolveDay(ctx context.Context, day types.Day) (*models.CalendarDate, error) {
	var row models.CalendarDate
	err := r.DB(ctx).Where("date = ?", day).First(&row).Error
	if err != nil {
		return nil, notFoundOr(err, "date "+day.String()+" not found", "lookup date")
	}
	return &row, nil
}

func (r *Resolver) ResolveCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	var row models.Category
	if err := r.DB(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return nil, notFoundOr(err, "category "+name+" not found", "lookup category")
	}
	return &row, nil
}

func (r *Resolver) ResolveProductByCode(ctx context.Context, code string) (*models.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prd_code is required")
	}
	var row models.Product
	if err := r.DB(ctx).Where("prd_code = ?", code).First(&row).Error; err != nil {
		return nil, notFoundOr(err, "product "+code+" not found", "lookup product")
	}
	return &row, nil
}

func (r *Resolver) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var row models.Product
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "product not found", "load product")
	}
	return &row, nil
}

func notFoundOr(err error, notFound, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
