package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ResultSet is one header/rowSet table of a stats.nba.com response.
type ResultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

type statsResponse struct {
	ResultSets []ResultSet `json:"resultSets"`
	ResultSet  *ResultSet  `json:"resultSet"` // some endpoints return a single table
}

// DecodeResultSet returns the first table of a stats response body.
func DecodeResultSet(endpoint string, body []byte) (*ResultSet, error) {
	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Err: err}
	}

	switch {
	case len(resp.ResultSets) > 0:
		return &resp.ResultSets[0], nil
	case resp.ResultSet != nil:
		return resp.ResultSet, nil
	default:
		return nil, &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("response has no result sets")}
	}
}

// Rows maps every row to a header-keyed record.
func (rs *ResultSet) Rows() []Row {
	index := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		index[strings.ToUpper(h)] = i
	}

	rows := make([]Row, 0, len(rs.RowSet))
	for _, values := range rs.RowSet {
		rows = append(rows, Row{index: index, values: values})
	}
	return rows
}

// Require checks that every named column is present.
func (rs *ResultSet) Require(endpoint string, columns ...string) error {
	have := make(map[string]bool, len(rs.Headers))
	for _, h := range rs.Headers {
		have[strings.ToUpper(h)] = true
	}

	var missing []string
	for _, c := range columns {
		if !have[strings.ToUpper(c)] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("missing columns %s", strings.Join(missing, ", "))}
	}
	return nil
}

// Row is a single rowSet entry addressed by header name (case-insensitive).
type Row struct {
	index  map[string]int
	values []any
}

// Value returns the raw cell, or nil when the column is absent.
func (r Row) Value(column string) any {
	i, ok := r.index[strings.ToUpper(column)]
	if !ok || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// String returns the cell as text. Numbers are rendered without trailing zeros.
func (r Row) String(column string) string {
	switch v := r.Value(column).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the cell as an integer; ok is false for null or non-numeric cells.
func (r Row) Int(column string) (int, bool) {
	switch v := r.Value(column).(type) {
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}
