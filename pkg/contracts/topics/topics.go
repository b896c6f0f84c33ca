package topics

const (
	// Reconciliação
	PayoutChecked    = "payout_checked"
	PayoutCheckedDLQ = "payout_checked_dlq"
)
