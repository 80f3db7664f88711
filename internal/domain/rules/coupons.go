package rules

// CouponKind describes a discount tier. Types 1 and 2 only apply to the
// single-ticket product.
type CouponKind struct {
	Type         int
	DiscountRate int // percent
}

var couponKinds = []CouponKind{
	{Type: 1, DiscountRate: 50},
	{Type: 2, DiscountRate: 100},
	{Type: 3, DiscountRate: 30},
}

func CouponKindByType(couponType int) (CouponKind, bool) {
	for _, c := range couponKinds {
		if c.Type == couponType {
			return c, true
		}
	}
	return CouponKind{}, false
}

// CouponAppliesToProduct reports whether a coupon type may be used with a
// product type. Single-ticket-only coupons (types 1 and 2) are rejected for
// bundle products.
func CouponAppliesToProduct(couponType, productType int) bool {
	if couponType == 1 || couponType == 2 {
		return productType == 1
	}
	return true
}

// DiscountAmount computes the discount a coupon takes off a product price.
func DiscountAmount(price, discountRate int) int {
	return price * discountRate / 100
}
