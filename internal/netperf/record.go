// Package netperf turns netperf result logs into a sorted KPI report.
package netperf

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Record is the parsed content of one *.nplog.json file
type Record struct {
	Path string
	doc  gjson.Result
}

// ParseRecord validates data as JSON and wraps it for field extraction
func ParseRecord(path string, data []byte) (*Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}
	return &Record{Path: path, doc: gjson.ParseBytes(data)}, nil
}

// Get returns the value at a gjson path inside the record
func (r *Record) Get(path string) gjson.Result {
	return r.doc.Get(path)
}
