package pricing

// Action is one of the fixed analysis modes.
type Action int

const (
	actionUnknown Action = iota
	ActionLowestMargin
	ActionBelowThreshold
	ActionCategoryAverage
	ActionCheapest
	ActionMostExpensive
	ActionFilterProducts
	ActionExactPrice
)

var actionNames = [...]string{
	actionUnknown:         "",
	ActionLowestMargin:    "lowest_margin",
	ActionBelowThreshold:  "below_threshold",
	ActionCategoryAverage: "category_average",
	ActionCheapest:        "cheapest",
	ActionMostExpensive:   "most_expensive",
	ActionFilterProducts:  "filter_products",
	ActionExactPrice:      "exact_price",
}

// ParseAction maps a tag to its Action. Matching is exact.
func ParseAction(tag string) (Action, bool) {
	for a := ActionLowestMargin; int(a) < len(actionNames); a++ {
		if actionNames[a] == tag {
			return a, true
		}
	}
	return actionUnknown, false
}

func (a Action) String() string {
	if a <= actionUnknown || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ActionNames lists every valid tag in declaration order.
func ActionNames() []string {
	names := make([]string, 0, len(actionNames)-1)
	for a := ActionLowestMargin; int(a) < len(actionNames); a++ {
		names = append(names, actionNames[a])
	}
	return names
}
