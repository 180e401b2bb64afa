package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"research_assistant_backend/internal/catalog/domain"
	"research_assistant_backend/platform/apperr"
)

// DefaultLimit applies when a request carries no positive limit.
const DefaultLimit = 5

const (
	errMissingPriceData    = "Missing price or cost data in catalog."
	errMissingCategoryData = "Missing category data in catalog."
	errExactPriceTarget    = "exact_price action requires max_price parameter set to the target price."
)

// Request carries the action tag and its optional parameters.
// Nil pointers mean "not supplied".
type Request struct {
	Action    string
	Threshold float64
	Category  *string
	Limit     int
	MaxPrice  *float64
	MinRating *float64
}

// Result is either an ordered list of records or an error message.
// An empty Records slice with no Error is a valid "no matches" answer.
type Result struct {
	Action  string
	Records []Record
	Error   string
}

// Failed reports whether the result carries a structured error.
func (r Result) Failed() bool { return r.Error != "" }

// MarshalJSON renders {"error": ...} for failures and
// {"action", "count", "results"} otherwise.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Error})
	}
	records := r.Records
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(struct {
		Action  string   `json:"action"`
		Count   int      `json:"count"`
		Results []Record `json:"results"`
	}{Action: r.Action, Count: len(records), Results: records})
}

func failure(message string) Result {
	return Result{Error: message}
}

type row struct {
	product domain.Product
	margin  float64
}

// Engine runs analysis actions against catalog snapshots. It is stateless
// and safe for concurrent use.
type Engine struct{}

// NewEngine returns an Engine.
func NewEngine() *Engine { return &Engine{} }

// Analyze dispatches req against snap. Expected problems (unknown action,
// missing columns, missing target price) come back as Result.Error. A nil
// snapshot is an error.
func (e *Engine) Analyze(req Request, snap *domain.Snapshot) (Result, error) {
	if snap == nil {
		return Result{}, apperr.Unavailable("catalog is not loaded").WithOp("pricing.Analyze")
	}

	if !snap.HasColumn(domain.ColCurrentPrice) || !snap.HasColumn(domain.ColCost) {
		return failure(errMissingPriceData), nil
	}

	action, ok := ParseAction(req.Action)
	if !ok {
		return failure(fmt.Sprintf("Invalid action '%s'.", req.Action)), nil
	}

	products := snap.Products()
	rows := make([]row, len(products))
	for i, p := range products {
		rows[i] = row{product: p, margin: Margin(p.CurrentPrice, p.Cost)}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var selected []row
	fields := baseFields

	switch action {
	case ActionLowestMargin:
		selected = rows
		sortBy(selected, func(a, b row) bool { return a.margin < b.margin })

	case ActionBelowThreshold:
		selected = filter(rows, func(r row) bool { return r.margin < req.Threshold })
		sortBy(selected, func(a, b row) bool { return a.margin < b.margin })

	case ActionCheapest:
		selected = rows
		sortBy(selected, func(a, b row) bool { return a.product.CurrentPrice < b.product.CurrentPrice })

	case ActionMostExpensive:
		selected = rows
		sortBy(selected, func(a, b row) bool { return a.product.CurrentPrice > b.product.CurrentPrice })

	case ActionFilterProducts:
		selected = filter(rows, func(r row) bool {
			if req.Category != nil && *req.Category != "" && !categoryMatches(r.product.Category, *req.Category) {
				return false
			}
			if req.MaxPrice != nil && r.product.CurrentPrice > *req.MaxPrice {
				return false
			}
			if req.MinRating != nil && r.product.AverageRating < *req.MinRating {
				return false
			}
			return true
		})
		sortBy(selected, func(a, b row) bool {
			if a.product.AverageRating != b.product.AverageRating {
				return a.product.AverageRating > b.product.AverageRating
			}
			return a.product.CurrentPrice < b.product.CurrentPrice
		})
		fields = extendedFields

	case ActionExactPrice:
		if req.MaxPrice == nil {
			return failure(errExactPriceTarget), nil
		}
		target := cents(*req.MaxPrice)
		selected = filter(rows, func(r row) bool { return cents(r.product.CurrentPrice) == target })
		fields = extendedFields

	case ActionCategoryAverage:
		if !snap.HasColumn(domain.ColCategory) {
			return failure(errMissingCategoryData), nil
		}
		return Result{Action: action.String(), Records: categoryAverages(rows, req.Category)}, nil

	default:
		return failure(fmt.Sprintf("Invalid action '%s'.", req.Action)), nil
	}

	if len(selected) > limit {
		selected = selected[:limit]
	}

	records := make([]Record, 0, len(selected))
	for _, r := range selected {
		records = append(records, project(r, fields, snap))
	}
	return Result{Action: action.String(), Records: records}, nil
}

func categoryAverages(rows []row, category *string) []Record {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, r := range rows {
		name := r.product.Category
		if name == "" {
			continue
		}
		if category != nil && *category != "" && !categoryMatches(name, *category) {
			continue
		}
		g, ok := groups[name]
		if !ok {
			g = &acc{}
			groups[name] = g
		}
		g.sum += r.margin
		g.count++
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)

	records := make([]Record, 0, len(names))
	for _, name := range names {
		g := groups[name]
		var rec Record
		rec.set(FieldCategory, name)
		rec.set(FieldMarginPct, round2(g.sum/float64(g.count)))
		records = append(records, rec)
	}
	return records
}

func project(r row, fields []Field, snap *domain.Snapshot) Record {
	var rec Record
	for _, f := range fields {
		switch f {
		case FieldMarginPct:
			rec.set(f, r.margin)
		case FieldProductName:
			if snap.HasColumn(domain.ColProductName) {
				rec.set(f, r.product.ProductName)
			}
		case FieldCategory:
			if snap.HasColumn(domain.ColCategory) {
				rec.set(f, r.product.Category)
			}
		case FieldCurrentPrice:
			rec.set(f, r.product.CurrentPrice)
		case FieldCost:
			rec.set(f, r.product.Cost)
		case FieldAverageRating:
			if snap.HasColumn(domain.ColAverageRating) {
				rec.set(f, r.product.AverageRating)
			}
		case FieldStockQuantity:
			if snap.HasColumn(domain.ColStockQuantity) {
				rec.set(f, r.product.StockQuantity)
			}
		}
	}
	return rec
}

func filter(rows []row, keep func(row) bool) []row {
	out := make([]row, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func sortBy(rows []row, less func(a, b row) bool) {
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

func categoryMatches(value, needle string) bool {
	if value == "" {
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

// cents compares prices at the catalog's two-decimal precision.
func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
