package model

import "time"

// Query execution statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// QueryItem is one entry of a query-set manifest.
type QueryItem struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Query       string `json:"query" yaml:"query"`
	Reasoning   string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
}

// QueryResult is the outcome of executing one QueryItem.
type QueryResult struct {
	QueryID              string   `json:"query_id"`
	Description          string   `json:"description,omitempty"`
	Reasoning            string   `json:"reasoning,omitempty"`
	QueryText            string   `json:"query_text,omitempty"`
	Status               string   `json:"status"`
	ExecutionTimeSeconds float64  `json:"execution_time_seconds,omitempty"`
	RowCount             int      `json:"row_count"`
	Columns              []string `json:"columns,omitempty"`
	Results              []RawRow `json:"results"`
	Error                string   `json:"error,omitempty"`
}

// Succeeded reports whether the query produced a usable row list.
func (r QueryResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Failure describes why the result cannot be compared.
func (r QueryResult) Failure() string {
	if r.Error != "" {
		return r.Error
	}
	return "query " + r.Status
}

type ResultsMetadata struct {
	RunID              string    `json:"run_id,omitempty"`
	SourceFile         string    `json:"source_file,omitempty"`
	ExecutionTimestamp time.Time `json:"execution_timestamp"`
	Backend            string    `json:"backend,omitempty"`
	TotalQueries       int       `json:"total_queries"`
	SuccessfulQueries  int       `json:"successful_queries"`
}

// ResultsDocument is the persisted output of executing a query set.
type ResultsDocument struct {
	Metadata ResultsMetadata `json:"metadata"`
	Queries  []QueryResult   `json:"queries"`
}

// Lookup returns the result recorded for a query id.
func (d *ResultsDocument) Lookup(queryID string) (QueryResult, bool) {
	for _, q := range d.Queries {
		if q.QueryID == queryID {
			return q, true
		}
	}
	return QueryResult{}, false
}
