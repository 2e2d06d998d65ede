package models

// QueryRequest is the JSON body posted to the Answer Service
type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// QueryResponse is the decoded Answer Service reply. The service reports
// its own failures through Error with a 200 status.
type QueryResponse struct {
	Answer string
	Error  string
}
