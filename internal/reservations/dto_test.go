package reservations

import (
	"encoding/json"
	"testing"

	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) CreateRequest {
	t.Helper()
	var req CreateRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestStockInputAcceptsStringIDs(t *testing.T) {
	req := decode(t, `{"RSV_TIME":"2024-04-01","STOCK_ID":12,"USER_ID":"7","MY_COUPON_ID":"","MET":0,"DATE":"2024-04-01"}`)
	in, err := req.StockInput()
	require.NoError(t, err)
	assert.Equal(t, int64(7), in.UserID)
	assert.Equal(t, StockTarget{StockID: 12}, in.Target)

	m := in.toModel()
	assert.Equal(t, "2024-04-01", m.Date)
	assert.Nil(t, m.MyCouponID)
}

func TestCouponInputIgnoresLegacyStockID(t *testing.T) {
	req := decode(t, `{"RSV_TIME":"2024-04-01","STOCK_ID":9999,"USER_ID":7,"MY_COUPON_ID":"31","MET":0}`)
	in, err := req.CouponInput()
	require.NoError(t, err)
	assert.Equal(t, CouponTarget{MyCouponID: 31}, in.Target)

	m := in.toModel()
	assert.Nil(t, m.StockID)
	assert.Equal(t, int64(31), *m.MyCouponID)
}

func TestCreateRequestValidation(t *testing.T) {
	cases := map[string]struct {
		body   string
		coupon bool
	}{
		"missing stock":   {body: `{"RSV_TIME":"2024-04-01","USER_ID":7}`},
		"missing coupon":  {body: `{"RSV_TIME":"2024-04-01","USER_ID":7,"STOCK_ID":9999}`, coupon: true},
		"missing user":    {body: `{"RSV_TIME":"2024-04-01","STOCK_ID":1}`},
		"missing rsv":     {body: `{"USER_ID":7,"STOCK_ID":1}`},
		"bad met":         {body: `{"RSV_TIME":"2024-04-01","USER_ID":7,"STOCK_ID":1,"MET":3}`},
		"date mismatched": {body: `{"RSV_TIME":"2024-04-01","USER_ID":7,"STOCK_ID":1,"DATE":"2024-04-02"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := decode(t, tc.body)
			var err error
			if tc.coupon {
				_, err = req.CouponInput()
			} else {
				_, err = req.StockInput()
			}
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}
