package model

// PaymentMethod is an opaque payment capability owned by a user.  The
// service only checks ownership before a purchase; card validation and
// charging happen in an external payment system.
type PaymentMethod struct {
	ID        uint64 // payment_methods.id
	UserID    uint64 // payment_methods.user_id
	Label     string // payment_methods.label
	CardLast4 string // payment_methods.card_last4
	IsDefault bool   // payment_methods.is_default
}
