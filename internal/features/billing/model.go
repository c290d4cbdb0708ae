package billing

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// BillingRecord is one charge recorded from the payment provider.
type BillingRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subscription references the billing record that opened or renewed it.
type Subscription struct {
	ID              string             `json:"id"`
	BillingID       string             `json:"billingId"`
	CustomerID      string             `json:"customerId"`
	PaymentID       string             `json:"paymentId"`
	Status          SubscriptionStatus `json:"status"`
	NextBillingDate time.Time          `json:"nextBillingDate"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// SubscriptionEvent is the inbound "record a subscription event" shape
// consumed from the billing webhook collaborator.
type SubscriptionEvent struct {
	CustomerID      string             `json:"customerId"`
	PaymentID       string             `json:"paymentId"`
	Status          SubscriptionStatus `json:"status"`
	Amount          float64            `json:"amount"`
	Currency        string             `json:"currency"`
	NextBillingDate time.Time          `json:"nextBillingDate"`
}
