package apper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Table names on the hosted backend
const (
	TableProject = "project"
	TableTask    = "task"
	TableTimeLog = "time_log"
	TableInvoice = "app_invoice"
)

// FieldRef selects one column of a record
type FieldRef struct {
	Field struct {
		Name string `json:"Name"`
	} `json:"field"`
}

// Fields builds the field selection list for a fetch
func Fields(names ...string) []FieldRef {
	refs := make([]FieldRef, len(names))
	for i, name := range names {
		refs[i].Field.Name = name
	}
	return refs
}

// Where is one filter condition
type Where struct {
	FieldName string        `json:"FieldName"`
	Operator  string        `json:"Operator"`
	Values    []interface{} `json:"Values"`
}

// EqualTo builds an equality filter
func EqualTo(field string, value interface{}) Where {
	return Where{FieldName: field, Operator: "EqualTo", Values: []interface{}{value}}
}

// OrderBy is one sort key
type OrderBy struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"`
}

// Desc sorts by field descending
func Desc(field string) OrderBy {
	return OrderBy{FieldName: field, SortType: "DESC"}
}

// FetchParams is the body of a fetch request
type FetchParams struct {
	Fields  []FieldRef `json:"fields"`
	Where   []Where    `json:"where,omitempty"`
	OrderBy []OrderBy  `json:"orderBy,omitempty"`
}

// CreateParams is the body of a create or update request
type CreateParams[T any] struct {
	Records []T `json:"records"`
}

// DeleteParams is the body of a delete request
type DeleteParams struct {
	RecordIds []int64 `json:"RecordIds"`
}

// fetchEnvelope is the raw response of a fetch request
type fetchEnvelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    []T    `json:"data"`
}

// recordResult is the per-record outcome of a create request
type recordResult[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

// createEnvelope is the raw response of a create, update or delete request
type createEnvelope[T any] struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Results []recordResult[T] `json:"results"`
}

// Result is either a decoded payload or the failure that prevented it
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful payload
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps a failure
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the result carries a payload
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Err returns the failure, or nil
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap returns the payload and the failure
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// RecordRef is a reference to another record. The backend sends it as a
// number, a numeric string, or a lookup object {"Id": 5, "Name": "..."}.
type RecordRef struct {
	ID    string
	Name  string
	Valid bool
}

// UnmarshalJSON accepts every reference shape the backend produces
func (r *RecordRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = RecordRef{}

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		r.ID, r.Valid = s, s != ""
		return nil
	case data[0] == '{':
		var obj struct {
			ID   json.Number `json:"Id"`
			Name string      `json:"Name"`
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			return err
		}
		r.ID, r.Name, r.Valid = numberString(obj.ID), obj.Name, obj.ID != ""
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported record reference %s", string(data))
		}
		r.ID, r.Valid = numberString(n), true
		return nil
	}
}

// MarshalJSON writes the reference as a number when possible
func (r RecordRef) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(r.ID)
}

// Int64 returns the referenced id as an integer, 0 when absent or non-numeric
func (r RecordRef) Int64() int64 {
	n, _ := strconv.ParseInt(r.ID, 10, 64)
	return n
}

// Ref builds a reference from a string id
func Ref(id string) RecordRef {
	id = strings.TrimSpace(id)
	return RecordRef{ID: id, Valid: id != ""}
}

// RefInt builds a reference from an integer id
func RefInt(id int64) RecordRef {
	return RecordRef{ID: strconv.FormatInt(id, 10), Valid: true}
}

// numberString renders "5", "5.0" and "5e0" as "5"
func numberString(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}

// parseTimestamp accepts RFC3339 with or without fractional seconds; an
// empty or malformed value yields the zero time.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// formatTimestamp renders times the way the backend stores them
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
