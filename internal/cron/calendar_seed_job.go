package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	CalendarSeedJobName = "calendar-seed"
	seedBatchSize       = 100
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CalendarSeedJobParams configure the calendar seeding job.
type CalendarSeedJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	DaysAhead  int
	DaysBehind int
	Location   *time.Location
	Now        func() time.Time
}

type calendarSeedJob struct {
	logg       *logger.Logger
	db         txRunner
	daysAhead  int
	daysBehind int
	loc        *time.Location
	now        func() time.Time
}

// NewCalendarSeedJob builds the job that keeps the dates table filled for
// [today-DaysBehind, today+DaysAhead].
func NewCalendarSeedJob(params CalendarSeedJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.DB == nil {
		return nil, errors.New("db runner required")
	}
	if params.DaysAhead < 0 || params.DaysBehind < 0 {
		return nil, fmt.Errorf("calendar window must be non-negative (ahead=%d behind=%d)", params.DaysAhead, params.DaysBehind)
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &calendarSeedJob{
		logg:       params.Logger,
		db:         params.DB,
		daysAhead:  params.DaysAhead,
		daysBehind: params.DaysBehind,
		loc:        loc,
		now:        now,
	}, nil
}

func (j *calendarSeedJob) Name() string { return CalendarSeedJobName }

func (j *calendarSeedJob) Run(ctx context.Context) error {
	today := types.NewDay(j.now().In(j.loc))
	rows := CalendarRows(today.AddDays(-j.daysBehind), today.AddDays(j.daysAhead))

	var inserted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoNothing: true,
		}).CreateInBatches(&rows, seedBatchSize)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed calendar: %w", err)
	}

	j.logg.Event(ctx, "calendar.seeded", map[string]any{
		"from":     rows[0].Date.String(),
		"to":       rows[len(rows)-1].Date.String(),
		"window":   len(rows),
		"inserted": inserted,
	})
	return nil
}

// CalendarRows returns one row per day in [from, to], labeled with the
// three-letter English weekday.
func CalendarRows(from, to types.Day) []models.CalendarDate {
	var rows []models.CalendarDate
	for d := from; !to.Before(d); d = d.AddDays(1) {
		rows = append(rows, models.CalendarDate{Date: d, Week: WeekLabel(d)})
	}
	return rows
}

// WeekLabel returns "Mon", "Tue", ... for d.
func WeekLabel(d types.Day) string {
	return d.Weekday().String()[:3]
}
