package model

import "time"

// Ticket is a consumable entitlement allowing a team to accept one matching.
// Tickets are issued in batches when an order is fulfilled and hard-deleted
// when their matching is deleted.
type Ticket struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	OrderID   *int64     `json:"order_id"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}
