package rules

const (
	// MaxDrinkGap is the largest allowed difference between two teams'
	// drink levels for them to be paired.
	MaxDrinkGap = 4

	// MaxPriorMatchings is the number of prior matchings after which a
	// team owner is excluded from new rounds.
	MaxPriorMatchings = 3
)

// universityTiers groups university codes into coarse levels used to order
// teams inside a round. Unlisted codes fall into the lowest tier.
var universityTiers = map[int]int{
	1: 3, 2: 3, 3: 3,
	4: 2, 5: 2, 6: 2, 7: 2,
	8: 1, 9: 1, 10: 1,
}

// UniversityTier returns the highest tier among a team's university codes.
func UniversityTier(universities []int) int {
	tier := 0
	for _, u := range universities {
		t, ok := universityTiers[u]
		if !ok {
			t = 0
		}
		if t > tier {
			tier = t
		}
	}
	return tier
}

func DrinkCompatible(a, b int) bool {
	gap := a - b
	if gap < 0 {
		gap = -gap
	}
	return gap < MaxDrinkGap
}

// SharesValue reports whether two multi-value attributes intersect.
func SharesValue(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// AgeFits reports whether age falls inside the [min, max] preference. An
// unset preference (zero bounds) accepts any age.
func AgeFits(age, min, max int) bool {
	if min == 0 && max == 0 {
		return true
	}
	return age >= min && age <= max
}
