package tushare

// apiRequest is the envelope every tushare pro call posts.
type apiRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields"`
}

// apiResponse is the tushare pro response with a column/row table payload.
type apiResponse struct {
	RequestID string    `json:"request_id"`
	Code      int       `json:"code"`
	Msg       string    `json:"msg"`
	Data      *apiTable `json:"data"`
}

type apiTable struct {
	Fields  []string `json:"fields"`
	Items   [][]any  `json:"items"`
	HasMore bool     `json:"has_more"`
}

// column returns the index of name in the table header, -1 if absent.
func (t *apiTable) column(name string) int {
	for i, f := range t.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// cell returns row[idx] or nil when the column is absent or the row is short.
func cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
