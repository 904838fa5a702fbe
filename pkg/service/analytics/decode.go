package analytics

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
)

// Shape names the response layout a matcher recognized
type Shape string

const (
	ShapeArray  Shape = "array"
	ShapeData   Shape = "data"
	ShapeItems  Shape = "items"
	ShapeValues Shape = "values"
	ShapeObject Shape = "object"
)

// Decoded is a record list together with the shape it was read from
type Decoded struct {
	Shape   Shape
	Records []model.Record
}

// Matcher recognizes one response layout. Match receives the raw body and
// its generic decoding and reports whether the layout applies.
type Matcher struct {
	Shape Shape
	Match func(body []byte, doc any) ([]model.Record, bool)
}

// DefaultMatchers is the order in which record layouts are tried
var DefaultMatchers = []Matcher{
	{Shape: ShapeArray, Match: matchArray},
	{Shape: ShapeData, Match: matchData},
	{Shape: ShapeItems, Match: matchItems},
	{Shape: ShapeValues, Match: matchValues},
}

// DecodeRecords decodes a record list by trying matchers in order. The
// first matcher that accepts the body wins; none accepting is an error
// tagged ErrTagUnexpectedShape.
func DecodeRecords(body []byte, matchers ...Matcher) (*Decoded, error) {
	if len(matchers) == 0 {
		matchers = DefaultMatchers
	}

	doc, err := parse(body)
	if err != nil {
		return nil, err
	}
	if err := upstreamError(doc); err != nil {
		return nil, err
	}

	for _, m := range matchers {
		if records, ok := m.Match(body, doc); ok {
			return &Decoded{Shape: m.Shape, Records: records}, nil
		}
	}

	return nil, goerr.New("unexpected analytics response shape",
		goerr.V("body", truncate(string(body), 256)),
		goerr.T(ErrTagUnexpectedShape))
}

// DecodeObject decodes a single-object response such as a KPI endpoint.
// A one element array and a {"data": {...}} wrapper are unwrapped.
func DecodeObject(body []byte) (model.Record, error) {
	doc, err := parse(body)
	if err != nil {
		return nil, err
	}
	if err := upstreamError(doc); err != nil {
		return nil, err
	}

	switch v := doc.(type) {
	case map[string]any:
		if inner, ok := v["data"].(map[string]any); ok && len(v) == 1 {
			return model.Record(inner), nil
		}
		return model.Record(v), nil
	case []any:
		if len(v) == 1 {
			if obj, ok := v[0].(map[string]any); ok {
				return model.Record(obj), nil
			}
		}
	}

	return nil, goerr.New("unexpected analytics object shape",
		goerr.V("body", truncate(string(body), 256)),
		goerr.T(ErrTagUnexpectedShape))
}

// DecodePage decodes a paginated table response of the form
// {"page", "page_size", "total_rows", "data": [...]}. Bodies without
// pagination fields fall back to DecodeRecords with the row count as total.
func DecodePage(body []byte) (*model.Table, error) {
	var page struct {
		Page      *int `json:"page"`
		PageSize  *int `json:"page_size"`
		TotalRows *int `json:"total_rows"`
	}
	if err := json.Unmarshal(body, &page); err == nil && page.TotalRows != nil {
		decoded, err := DecodeRecords(body, Matcher{Shape: ShapeData, Match: matchData})
		if err != nil {
			return nil, err
		}
		table := &model.Table{
			Rows:      decoded.Records,
			TotalRows: *page.TotalRows,
		}
		if page.Page != nil {
			table.Page = *page.Page
		}
		if page.PageSize != nil {
			table.PageSize = *page.PageSize
		}
		return table, nil
	}

	decoded, err := DecodeRecords(body)
	if err != nil {
		return nil, err
	}
	return &model.Table{
		Rows:      decoded.Records,
		Page:      1,
		PageSize:  len(decoded.Records),
		TotalRows: len(decoded.Records),
	}, nil
}

func parse(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, goerr.Wrap(err, "analytics response is not valid JSON",
			goerr.V("body", truncate(string(body), 256)),
			goerr.T(ErrTagUnexpectedShape))
	}
	return doc, nil
}

func upstreamError(doc any) error {
	obj, ok := doc.(map[string]any)
	if !ok || len(obj) != 1 {
		return nil
	}
	msg, ok := obj["error"].(string)
	if !ok {
		return nil
	}
	return goerr.New("analytics API reported an error",
		goerr.V("upstream_error", msg),
		goerr.T(ErrTagUpstream))
}

func matchArray(_ []byte, doc any) ([]model.Record, bool) {
	list, ok := doc.([]any)
	if !ok {
		return nil, false
	}
	return toRecords(list), true
}

func matchData(_ []byte, doc any) ([]model.Record, bool) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}
	list, ok := obj["data"].([]any)
	if !ok {
		return nil, false
	}
	return toRecords(list), true
}

func matchItems(_ []byte, doc any) ([]model.Record, bool) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}
	if list, ok := obj["items"].([]any); ok {
		return toRecords(list), true
	}
	if data, ok := obj["data"].(map[string]any); ok {
		if list, ok := data["items"].([]any); ok {
			return toRecords(list), true
		}
	}
	return nil, false
}

// matchValues accepts an object whose values are all objects, either at
// the top level or under "data". Records keep the document key order.
func matchValues(body []byte, doc any) ([]model.Record, bool) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}

	raw := body
	if data, ok := obj["data"].(map[string]any); ok && len(obj) == 1 {
		obj = data
		var wrapper struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, false
		}
		raw = wrapper.Data
	}
	if len(obj) == 0 {
		return nil, false
	}
	for _, v := range obj {
		if _, isObj := v.(map[string]any); !isObj {
			return nil, false
		}
	}

	keys, err := orderedKeys(raw)
	if err != nil {
		return nil, false
	}

	records := make([]model.Record, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		records = append(records, model.Record(obj[k].(map[string]any)))
	}
	return records, true
}

// orderedKeys returns the top-level keys of a JSON object in document order
func orderedKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object start")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, goerr.New("not a JSON object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read object key")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, goerr.New("object key is not a string")
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, goerr.Wrap(err, "failed to skip object value", goerr.V("key", key))
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func toRecords(list []any) []model.Record {
	records := make([]model.Record, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, model.Record(obj))
		}
	}
	return records
}
