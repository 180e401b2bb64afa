package transport

import "time"

type FeedbackRequest struct {
	QueryID int64   `json:"query_id" validate:"required,gt=0"`
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type FeedbackResponse struct {
	Message string `json:"message"`
}

type HistoryQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

type ExportQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=5000"`
}

// HistoryItem mirrors a logged query with its latest feedback.
type HistoryItem struct {
	ID            int64     `json:"id"`
	UserQuery     string    `json:"user_query"`
	AgentResponse string    `json:"agent_response"`
	Reasoning     []string  `json:"reasoning"`
	ToolsUsed     []string  `json:"tools_used"`
	Timestamp     time.Time `json:"timestamp"`
	Rating        *int      `json:"rating"`
	Comment       *string   `json:"comment"`
}
