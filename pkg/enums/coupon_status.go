package enums

import "fmt"

// CouponStatus is the lifecycle state of an owned coupon instance.
// Transitions only go from available to consumed.
type CouponStatus int

const (
	CouponStatusAvailable CouponStatus = 1
	CouponStatusConsumed  CouponStatus = 2
)

var validCouponStatuses = []CouponStatus{
	CouponStatusAvailable,
	CouponStatusConsumed,
}

// String returns a readable label for the status.
func (s CouponStatus) String() string {
	switch s {
	case CouponStatusAvailable:
		return "available"
	case CouponStatusConsumed:
		return "consumed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// IsValid reports whether the status is known.
func (s CouponStatus) IsValid() bool {
	for _, candidate := range validCouponStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCouponStatus converts a stored integer into a CouponStatus.
func ParseCouponStatus(value int) (CouponStatus, error) {
	for _, candidate := range validCouponStatuses {
		if int(candidate) == value {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("invalid coupon status %d", value)
}
