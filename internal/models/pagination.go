package models

// Page bounds shared by list endpoints.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// NormalizePage clamps skip to >= 0 and limit to 1..MaxPageLimit.
func NormalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	switch {
	case limit < 1:
		limit = 1
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return skip, limit
}
