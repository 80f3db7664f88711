package rules

import "testing"

func TestUniversityTierTakesHighest(t *testing.T) {
	tests := []struct {
		name         string
		universities []int
		want         int
	}{
		{name: "single top tier", universities: []int{1}, want: 3},
		{name: "mixed takes highest", universities: []int{9, 4}, want: 2},
		{name: "unknown code is tier zero", universities: []int{99}, want: 0},
		{name: "empty", universities: nil, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := UniversityTier(tc.universities); got != tc.want {
				t.Fatalf("unexpected tier: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestDrinkCompatible(t *testing.T) {
	if !DrinkCompatible(2, 5) {
		t.Fatal("gap of 3 should be compatible")
	}
	if DrinkCompatible(1, 5) {
		t.Fatal("gap of 4 should not be compatible")
	}
	if !DrinkCompatible(5, 2) {
		t.Fatal("gap must be symmetric")
	}
}

func TestSharesValue(t *testing.T) {
	if !SharesValue([]int{1, 2}, []int{2, 3}) {
		t.Fatal("expected shared value")
	}
	if SharesValue([]int{1}, []int{2}) {
		t.Fatal("expected no shared value")
	}
	if SharesValue(nil, []int{1}) {
		t.Fatal("empty attribute shares nothing")
	}
}

func TestAgeFits(t *testing.T) {
	if !AgeFits(25, 23, 27) {
		t.Fatal("25 fits [23,27]")
	}
	if AgeFits(22, 23, 27) {
		t.Fatal("22 does not fit [23,27]")
	}
	if !AgeFits(40, 0, 0) {
		t.Fatal("unset preference accepts any age")
	}
}

func TestCouponAppliesToProduct(t *testing.T) {
	if !CouponAppliesToProduct(1, 1) {
		t.Fatal("type 1 coupon applies to product 1")
	}
	if CouponAppliesToProduct(2, 3) {
		t.Fatal("type 2 coupon is single-ticket only")
	}
	if !CouponAppliesToProduct(3, 2) {
		t.Fatal("type 3 coupon applies to any product")
	}
}

func TestDiscountAmount(t *testing.T) {
	if got := DiscountAmount(5000, 50); got != 2500 {
		t.Fatalf("unexpected discount: got %d want %d", got, 2500)
	}
	if got := DiscountAmount(5000, 100); got != 5000 {
		t.Fatalf("unexpected discount: got %d want %d", got, 5000)
	}
}
