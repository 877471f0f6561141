package stocks

import (
	"context"
	"errors"

	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	"github.com/popmakeup/popmakeup-backend/pkg/metrics"
)

const (
	queryName          = "availability"
	dropOutsideCatalog = "product_outside_category"
)

// Service answers "what is on the shelf for this day and category".
type Service interface {
	Availability(ctx context.Context, date, category string) ([]AvailabilityItem, error)
}

type resolver interface {
	ResolveDate(ctx context.Context, raw string) (*models.CalendarDate, error)
	ResolveCategory(ctx context.Context, name string) (*models.Category, error)
}

type repository interface {
	ProductsInCategory(ctx context.Context, categoryID int64) ([]models.Product, error)
	StocksForDate(ctx context.Context, dateID int64) ([]models.ProductStock, error)
}

// ServiceParams bundles availability dependencies. Metrics is optional.
type ServiceParams struct {
	Resolver   resolver
	Repository repository
	Logger     *logger.Logger
	Metrics    *metrics.WorkflowMetrics
}

type service struct {
	resolver resolver
	repo     repository
	logg     *logger.Logger
	metrics  *metrics.WorkflowMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Resolver == nil {
		return nil, errors.New("resolver required")
	}
	if params.Repository == nil {
		return nil, errors.New("stocks repository required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	return &service{
		resolver: params.Resolver,
		repo:     params.Repository,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) Availability(ctx context.Context, date, category string) ([]AvailabilityItem, error) {
	day, err := s.resolver.ResolveDate(ctx, date)
	if err != nil {
		return nil, err
	}
	cat, err := s.resolver.ResolveCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.ProductsInCategory(ctx, cat.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	lots, err := s.repo.StocksForDate(ctx, day.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load stocks")
	}

	byID := make(map[int64]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]AvailabilityItem, 0, len(lots))
	dropped := 0
	for _, lot := range lots {
		p, ok := byID[lot.ProductID]
		if !ok {
			dropped++
			continue
		}
		items = append(items, merge(p, lot))
	}

	if dropped > 0 {
		s.metrics.AddRowsDropped(queryName, dropOutsideCatalog, dropped)
		s.logg.Event(ctx, "availability.rows_dropped", map[string]any{
			"date":     day.Date.String(),
			"category": cat.Name,
			"reason":   dropOutsideCatalog,
			"dropped":  dropped,
		})
	}
	return items, nil
}
