package sdk

// searchRequest is the POST /search body.
type searchRequest struct {
	Domain  string `json:"domain"`
	Keyword string `json:"keyword"`
}

// Result is one joined match.
type Result struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	Author    string  `json:"author"`
	CreatedAt string  `json:"created_at"`
	Distance  float64 `json:"distance"`
}

// Page is one page of search results.
type Page struct {
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Results    []Result `json:"results"`
}

// Health is the server health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
