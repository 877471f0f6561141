package product

import (
	"context"
	"errors"

	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
)

// Service serves product detail reads.
type Service interface {
	Detail(ctx context.Context, id int64) (*ProductDTO, error)
}

type productLookup interface {
	ProductByID(ctx context.Context, id int64) (*models.Product, error)
}

type service struct {
	lookup productLookup
}

func NewService(lookup productLookup) (Service, error) {
	if lookup == nil {
		return nil, errors.New("product lookup required")
	}
	return &service{lookup: lookup}, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*ProductDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ID must be a positive integer")
	}
	p, err := s.lookup.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(p), nil
}
