// Package redemption records point-of-sale pickups: one piece leaves a lot
// and an audit row is written, atomically.
package redemption

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/popmakeup/popmakeup-backend/internal/lookup"
	product "github.com/popmakeup/popmakeup-backend/internal/products"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	"github.com/popmakeup/popmakeup-backend/pkg/metrics"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
	"gorm.io/gorm"
)

const SuccessMessage = "Stock pieces decreased successfully. and Transaction data recorded."

const outOfStockMessage = "out of stock"

type Result struct {
	TrdID   int64               `json:"TRD_ID"`
	Prd     *product.ProductDTO `json:"PRD"`
	Message string              `json:"message"`
	RsvID   *int64              `json:"RSV_ID,omitempty"`
}

type Service interface {
	Redeem(ctx context.Context, userID int64, prdCode string) (*Result, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles redemption dependencies. Now and Location decide
// which calendar day is "today".
type ServiceParams struct {
	DB       txRunner
	Logger   *logger.Logger
	Metrics  *metrics.WorkflowMetrics
	Now      func() time.Time
	Location *time.Location
}

type service struct {
	db      txRunner
	logg    *logger.Logger
	metrics *metrics.WorkflowMetrics
	now     func() time.Time
	loc     *time.Location
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, errors.New("db runner required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	return &service{db: params.DB, logg: params.Logger, metrics: params.Metrics, now: now, loc: loc}, nil
}

func (s *service) Redeem(ctx context.Context, userID int64, prdCode string) (*Result, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a positive integer")
	}
	prdCode = strings.TrimSpace(prdCode)
	if prdCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prd_code is required")
	}
	today := types.NewDay(s.now().In(s.loc))

	var result *Result
	var chosen models.ProductStock
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		resolver := lookup.NewResolver(tx)
		r := NewRepository(tx)

		day, err := resolver.ResolveDay(ctx, today)
		if err != nil {
			return err
		}
		p, err := resolver.ResolveProductByCode(ctx, prdCode)
		if err != nil {
			return err
		}

		lots, err := r.LotsFor(ctx, p.ID, day.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load lots")
		}
		if len(lots) == 0 {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "no stock for product %s on %s", prdCode, today)
		}
		lot, ok := PickLot(lots)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, outOfStockMessage)
		}
		chosen = lot

		rsvID, err := r.ReservationFor(ctx, userID, lot.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reservation")
		}

		decremented, err := r.DecrementPiece(ctx, lot.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
		}
		if !decremented {
			return pkgerrors.New(pkgerrors.CodeStateConflict, outOfStockMessage)
		}

		rec := &models.TransactionRecord{UserID: userID, ProductID: p.ID, Date: today}
		if err := r.RecordTransaction(ctx, rec); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record transaction")
		}

		result = &Result{
			TrdID:   rec.ID,
			Prd:     product.FromModel(p),
			Message: SuccessMessage,
			RsvID:   rsvID,
		}
		return nil
	})

	outcome := outcomeOf(err)
	s.metrics.IncRedemption(outcome.String())
	if err != nil {
		return nil, err
	}
	s.logg.Event(ctx, "redemption.recorded", map[string]any{
		"trd_id":   result.TrdID,
		"user_id":  userID,
		"prd_code": prdCode,
		"stock_id": chosen.ID,
	})
	return result, nil
}

// PickLot returns the lot with pieces left and the earliest best-by day, ties
// going to the lowest ID. Lots without a best-by day sort last.
func PickLot(lots []models.ProductStock) (models.ProductStock, bool) {
	var best models.ProductStock
	found := false
	for _, lot := range lots {
		if lot.Pieces <= 0 {
			continue
		}
		if !found || expiresBefore(lot, best) {
			best = lot
			found = true
		}
	}
	return best, found
}

func expiresBefore(a, b models.ProductStock) bool {
	switch {
	case a.BestByDay.IsZero() && b.BestByDay.IsZero():
		return a.ID < b.ID
	case a.BestByDay.IsZero():
		return false
	case b.BestByDay.IsZero():
		return true
	case a.BestByDay == b.BestByDay:
		return a.ID < b.ID
	default:
		return a.BestByDay.Before(b.BestByDay)
	}
}

func outcomeOf(err error) enums.RedemptionOutcome {
	switch {
	case err == nil:
		return enums.RedemptionOutcomeRecorded
	case pkgerrors.IsCode(err, pkgerrors.CodeStateConflict):
		return enums.RedemptionOutcomeOutOfStock
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		return enums.RedemptionOutcomeNotFound
	default:
		return enums.RedemptionOutcomeFailed
	}
}
