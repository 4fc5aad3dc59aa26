package domain

// Routing keys for events published after a successful reconciliation.
const (
	RKPaymentReconciled = "payment.reconciled"
	RKEnrollmentCreated = "enrollment.created"
)

type PaymentReconciled struct {
	PaymentID    string `json:"payment_id"`
	OrderID      string `json:"order_id"`
	AccountID    string `json:"account_id"`
	EnrollmentID string `json:"enrollment_id"`
	Amount       int64  `json:"amount"` // minor units
}

type EnrollmentCreated struct {
	EnrollmentID string `json:"enrollment_id"`
	AccountID    string `json:"account_id"`
	OfferingID   string `json:"offering_id"`
	CourseName   string `json:"course_name"`
	NewAccount   bool   `json:"new_account"`
}
