package search

// Result is a single matter hit returned to the caller.
type Result struct {
	ID           string `json:"id"`
	Ref          string `json:"ref"`
	Counterparty string `json:"counterparty"`
	ContractName string `json:"contractName"`
	Owner        string `json:"owner"`
	Stage        string `json:"stage"`
	Snippet      string `json:"snippet"`
}

// Query describes a matter search request.
type Query struct {
	Text   string
	Limit  int
	Offset int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// MatterRecord is the data we index for a matter.
type MatterRecord struct {
	ID            string `json:"id"`
	Ref           string `json:"ref"`
	GroupEntity   string `json:"groupEntity"`
	Counterparty  string `json:"counterparty"`
	ContractName  string `json:"contractName"`
	ContractType  string `json:"contractType"`
	InternalDept  string `json:"internalDept"`
	Stage         string `json:"stage"`
	OverallStatus string `json:"overallStatus"`
	Owner         string `json:"owner"`
}
