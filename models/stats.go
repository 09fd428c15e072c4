package models

// TierStats is the per-tier slice of the statistics response.
// Remaining is total - sold and is intentionally not clamped at zero:
// overselling is visible, not prevented.
type TierStats struct {
	Sold      int     `json:"sold"`
	Total     int     `json:"total"`
	Remaining int     `json:"remaining"`
	Price     float64 `json:"price"`
}

type Stats struct {
	Standard     TierStats `json:"standard"`
	Premium      TierStats `json:"premium"`
	TotalRevenue float64   `json:"totalRevenue"`
}
