package model

import "time"

type Order struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	ProductType    int       `json:"product_type"`
	Price          int       `json:"price"`
	DiscountAmount int       `json:"discount_amount"`
	TotalAmount    int       `json:"total_amount"`
	CouponID       *int64    `json:"coupon_id"`
	TossPaymentKey *string   `json:"toss_payment_key"`
	TossOrderID    *string   `json:"toss_order_id"`
	TossMethod     *string   `json:"toss_method"`
	TossOrderName  *string   `json:"toss_order_name"`
	TossAmount     *int      `json:"toss_amount"`
	CreatedAt      time.Time `json:"created_at"`
}
