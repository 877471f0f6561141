package enums

import "fmt"

// ReservationTargetKind tags what a reservation is held against.
type ReservationTargetKind string

const (
	ReservationTargetStock  ReservationTargetKind = "stock"
	ReservationTargetCoupon ReservationTargetKind = "coupon"
)

var validReservationTargetKinds = []ReservationTargetKind{
	ReservationTargetStock,
	ReservationTargetCoupon,
}

// String returns the literal string for the kind.
func (k ReservationTargetKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is known.
func (k ReservationTargetKind) IsValid() bool {
	for _, candidate := range validReservationTargetKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseReservationTargetKind converts raw input into a ReservationTargetKind.
func ParseReservationTargetKind(value string) (ReservationTargetKind, error) {
	for _, candidate := range validReservationTargetKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation target kind %q", value)
}
