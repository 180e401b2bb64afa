package transport

type QueryRequest struct {
	Query string `json:"query" validate:"required,notblank,max=2000"`
}

type QueryResponse struct {
	QueryID   int64    `json:"query_id"`
	Answer    string   `json:"answer"`
	Reasoning []string `json:"reasoning"`
	ToolsUsed []string `json:"tools_used"`
}
