package transport

// AnalyzeRequest is the body of POST /analysis. Optional filters are pointers
// so an omitted field is distinguishable from zero.
type AnalyzeRequest struct {
	Action    string   `json:"action"`
	Threshold float64  `json:"threshold"`
	Category  *string  `json:"category"`
	Limit     int      `json:"limit" validate:"gte=0"`
	MaxPrice  *float64 `json:"max_price" validate:"omitempty,gte=0"`
	MinRating *float64 `json:"min_rating" validate:"omitempty,gte=0,lte=5"`
}
