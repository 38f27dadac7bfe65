package domain

// ModelSummary is a single entry from a server's model listing, it only
// lives long enough to be inspected.
type ModelSummary struct {
	Name       string
	Digest     string
	ModifiedAt string
	Size       int64
}

// ModelRecord is the unified view of a model on one server. Identity is
// (Server, Name); the same model on two servers yields two records.
// A record carrying an Error is degraded and only has the listing fields
// populated.
type ModelRecord struct {
	ContextLength *int64   `json:"context_length,omitempty"`
	Name          string   `json:"name"`
	Server        string   `json:"server"`
	SizeFormatted string   `json:"size_formatted"`
	ModifiedAt    string   `json:"modified_at"`
	Digest        string   `json:"digest,omitempty"`
	Parameters    string   `json:"parameters,omitempty"`
	Quantization  string   `json:"quantization,omitempty"`
	Family        string   `json:"family,omitempty"`
	Format        string   `json:"format,omitempty"`
	ParentModel   string   `json:"parent_model,omitempty"`
	Error         string   `json:"error,omitempty"`
	Capabilities  []string `json:"capabilities"`
	Size          int64    `json:"size"`
}

func (m *ModelRecord) IsDegraded() bool {
	return m.Error != ""
}

// ServerOutcome reports how a single server fared in a run. A failed server
// always has ModelCount 0 and a non-empty Error.
type ServerOutcome struct {
	Server     string `json:"server"`
	Error      string `json:"error,omitempty"`
	ModelCount int    `json:"model_count"`
	Success    bool   `json:"success"`
}

// AggregateResult is built fresh for every run. Capabilities and Families
// are sorted and deduplicated, ServerResults are in completion order.
type AggregateResult struct {
	Models        []*ModelRecord  `json:"models"`
	Capabilities  []string        `json:"capabilities"`
	Families      []string        `json:"families"`
	ServerResults []ServerOutcome `json:"server_results"`
}

func NewAggregateResult() *AggregateResult {
	return &AggregateResult{
		Models:        []*ModelRecord{},
		Capabilities:  []string{},
		Families:      []string{},
		ServerResults: []ServerOutcome{},
	}
}

// FailedServers is a small helper for logging and the stats page
func (r *AggregateResult) FailedServers() int {
	failed := 0
	for _, outcome := range r.ServerResults {
		if !outcome.Success {
			failed++
		}
	}
	return failed
}
