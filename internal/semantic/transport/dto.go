package transport

// SearchRequest is the body of POST /catalog/search.
type SearchRequest struct {
	Query string `json:"query" validate:"required,notblank,max=500"`
	Limit int    `json:"limit" validate:"gte=0,lte=20"`
}

// SearchResult is one ranked product match.
type SearchResult struct {
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Brand          string  `json:"brand"`
	Price          float64 `json:"price"`
	StockQuantity  int     `json:"stock_quantity"`
	Rating         float64 `json:"rating"`
	Description    string  `json:"description"`
	RelevanceScore float64 `json:"relevance_score"`
}

// SearchResponse wraps the ranked matches.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// ReindexResponse reports how many products were embedded.
type ReindexResponse struct {
	Message  string `json:"message"`
	Products int    `json:"products"`
}
