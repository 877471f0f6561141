package enums

// RedemptionOutcome labels the result of a point-of-sale redemption attempt.
type RedemptionOutcome string

const (
	RedemptionOutcomeRecorded   RedemptionOutcome = "recorded"
	RedemptionOutcomeOutOfStock RedemptionOutcome = "out_of_stock"
	RedemptionOutcomeNotFound   RedemptionOutcome = "not_found"
	RedemptionOutcomeFailed     RedemptionOutcome = "failed"
)

func (o RedemptionOutcome) String() string {
	return string(o)
}
