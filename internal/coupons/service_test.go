package coupons

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/popmakeup/popmakeup-backend/pkg/db/dbtest"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAvailableMergesTemplates(t *testing.T) {
	conn := dbtest.Open(t, t.Name())
	logs := &bytes.Buffer{}
	svc, err := NewService(NewRepository(conn), logger.New(logger.Options{Output: logs}), nil)
	require.NoError(t, err)

	desc := "valid on bento"
	template := models.Coupon{Name: "50 yen off", Description: &desc, Expiration: 14, Price: 50}
	require.NoError(t, conn.Create(&template).Error)

	get := types.DayOf(2024, time.April, 1)
	exp := types.DayOf(2024, time.April, 15)
	owned := []models.MyCoupon{
		{UserID: 7, CouponID: template.ID, GetDate: get, ExpDate: exp, Status: enums.CouponStatusAvailable},
		{UserID: 7, CouponID: template.ID, GetDate: get, ExpDate: exp, Status: enums.CouponStatusConsumed},
		{UserID: 8, CouponID: template.ID, GetDate: get, ExpDate: exp, Status: enums.CouponStatusAvailable},
		{UserID: 7, CouponID: template.ID + 40, GetDate: get, ExpDate: exp, Status: enums.CouponStatusAvailable},
	}
	for i := range owned {
		require.NoError(t, conn.Create(&owned[i]).Error)
	}

	items, err := svc.ListAvailable(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 1)

	raw, err := json.Marshal(items[0])
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.EqualValues(t, owned[0].ID, wire["ID"])
	assert.EqualValues(t, template.ID, wire["COUPON_ID"])
	assert.Equal(t, "50 yen off", wire["NAME"])
	assert.Equal(t, "2024-04-15", wire["EXP_DATE"])
	assert.EqualValues(t, 1, wire["STATUS"])

	assert.Contains(t, logs.String(), "my_coupons.rows_dropped")
}

func TestListAvailableEmpty(t *testing.T) {
	conn := dbtest.Open(t, t.Name())
	svc, err := NewService(NewRepository(conn), logger.New(logger.Options{Output: &bytes.Buffer{}}), nil)
	require.NoError(t, err)

	items, err := svc.ListAvailable(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = svc.ListAvailable(context.Background(), -1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
