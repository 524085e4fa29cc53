package models

// ResalePolicy selects how the resale ceiling of a new event is fixed.
// Exactly one policy is active per process.
type ResalePolicy string

const (
	// ResalePolicyFixed uses the explicit ceiling given at event creation.
	ResalePolicyFixed ResalePolicy = "fixed"
	// ResalePolicyMarkup derives the ceiling from the face price as
	// price + floor(price * 20 / 100); the explicit ceiling is ignored.
	ResalePolicyMarkup ResalePolicy = "markup"
)

// Ceiling computes the resale ceiling for an event with the given face
// price and explicitly requested ceiling.
func (p ResalePolicy) Ceiling(price, explicit uint64) uint64 {
	if p == ResalePolicyMarkup {
		return price + price*20/100
	}
	return explicit
}

// Valid reports whether p names a known policy.
func (p ResalePolicy) Valid() bool {
	return p == ResalePolicyFixed || p == ResalePolicyMarkup
}
