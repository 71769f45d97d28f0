package safejson

import "encoding/json"

// Result is the outcome of a tolerant JSON parse. When OK is false,
// Err holds the parser's message; the text is for display only and is
// not a stable contract.
type Result struct {
	OK   bool
	Data interface{}
	Err  string
}

// Parse unmarshals value without surfacing an error to the caller.
func Parse(value string) Result {
	var data interface{}
	if err := json.Unmarshal([]byte(value), &data); err != nil {
		return Result{Err: err.Error()}
	}
	return Result{OK: true, Data: data}
}
