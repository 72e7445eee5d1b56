package premium

import "time"

// Status is a user's premium membership record. Absence of a record means
// the user is on the free tier.
type Status struct {
	UserID      string
	Active      bool
	Plan        string
	OrderID     string
	PaymentID   string
	ActivatedAt time.Time
}
