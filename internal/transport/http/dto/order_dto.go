package dto

import "time"

type CreateOrderRequest struct {
	ProductType    int    `json:"product_type"`
	Price          int    `json:"price"`
	DiscountAmount int    `json:"discount_amount"`
	TotalAmount    int    `json:"total_amount"`
	CouponID       *int64 `json:"coupon_id,omitempty"`
	TossPaymentKey string `json:"toss_payment_key"`
	TossOrderID    string `json:"toss_order_id"`
	TossOrderName  string `json:"toss_order_name"`
}

type OrderResponse struct {
	OrderID     int64     `json:"order_id"`
	ProductType int       `json:"product_type"`
	TotalAmount int       `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderSummaryResponse struct {
	OrderID     int64     `json:"order_id"`
	ProductType int       `json:"product_type"`
	TotalAmount int       `json:"total_amount"`
	CouponType  *int      `json:"coupon_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
