package migrate_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/popmakeup/popmakeup-backend/pkg/config"
	"github.com/popmakeup/popmakeup-backend/pkg/db"

	"github.com/popmakeup/popmakeup-backend/pkg/db/dbtest"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	"github.com/popmakeup/popmakeup-backend/pkg/migrate"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrateEnforcesInvariants(t *testing.T) {
	conn := dbtest.Open(t, t.Name())

	day := types.DayOf(2024, 4, 1)
	require.NoError(t, conn.Create(&models.CalendarDate{Date: day, Week: "Mon"}).Error)
	require.Error(t, conn.Create(&models.CalendarDate{Date: day, Week: "Mon"}).Error, "dates are unique")

	require.NoError(t, conn.Create(&models.Category{Name: "Bento"}).Error)
	require.Error(t, conn.Create(&models.Category{Name: "Bento"}).Error, "category names are unique")

	require.NoError(t, conn.Create(&models.Product{PrdCode: "4900000000001", PrdName: "Karaage", Price: 500, CategoryID: 1}).Error)
	require.Error(t, conn.Create(&models.Product{PrdCode: "4900000000001", PrdName: "Dup", Price: 1, CategoryID: 1}).Error)

	stock := models.ProductStock{ProductID: 1, StoreID: 1, Pieces: 1}
	require.NoError(t, conn.Create(&stock).Error)
	err := conn.Exec("UPDATE stocks SET pieces = -1 WHERE id = ?", stock.ID).Error
	require.Error(t, err, "pieces may not go negative")

	stockID := stock.ID
	require.NoError(t, conn.Create(&models.Reservation{
		RsvTime: day, TargetKind: enums.ReservationTargetStock, StockID: &stockID, UserID: 1, Date: day.String(),
	}).Error)
	require.Error(t, conn.Create(&models.Reservation{
		RsvTime: day, TargetKind: enums.ReservationTargetStock, StockID: &stockID, UserID: 1, Date: day.String(),
	}).Error, "one reservation per lot per user")

	require.Error(t, conn.Create(&models.Reservation{
		RsvTime: day, TargetKind: enums.ReservationTargetCoupon, StockID: &stockID, UserID: 2, Date: day.String(),
	}).Error, "coupon targets carry no stock id")
}

func TestMaybeRunDevAutoMigratesNonPostgres(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvDev},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
		DB: config.DBConfig{
			Driver: config.DriverSQLite,
			DSN:    fmt.Sprintf("file:autorun_%s?mode=memory&cache=shared", uuid.NewString()),
		},
	}
	client, err := db.New(ctx, cfg.DB, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	require.NoError(t, migrate.MaybeRunDev(ctx, cfg, logg, client))

	for _, table := range []string{"dates", "stocks", "reservations", "my_coupons", "users"} {
		require.True(t, client.DB().Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestMaybeRunDevSkipsOutsideDev(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: config.AppEnvProd}, FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true}}
	require.NoError(t, migrate.MaybeRunDev(context.Background(), cfg, nil, nil))
}
