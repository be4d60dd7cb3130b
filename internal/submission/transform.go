package submission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNoRecord is returned when the export parses as JSON but no submission
// record can be extracted from it (wrong shape or an empty collection).
var ErrNoRecord = errors.New("no submission record found")

// Field is one raw key/value pair of a submission record, in source order.
type Field struct {
	Key   string
	Value interface{}
}

// QA is one question/answer pair of the report.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Result is the transformed submission. Metadata maps canonical bio-field
// names to display values; QA preserves the record's field order. A Result
// is built once per record and treated as read-only afterwards.
type Result struct {
	Metadata map[string]string `json:"metadata"`
	QA       []QA              `json:"qa"`

	// RecordCount is how many records the export carried. Only the first
	// is transformed; callers may want to log when it is more than one.
	RecordCount int `json:"-"`
}

// Transform parses a raw export blob and splits the first record into
// metadata and Q&A pairs. It is all-or-nothing: on a parse or extraction
// failure no partial result is returned.
func Transform(raw []byte, schema *Schema) (*Result, error) {
	record, count, err := extractRecord(raw)
	if err != nil {
		return nil, err
	}
	fields, err := parseRecord(record)
	if err != nil {
		return nil, err
	}
	res := TransformFields(fields, schema)
	res.RecordCount = count
	return res, nil
}

// extractRecord pulls the first record out of one of the two accepted export
// shapes: a bare JSON array of records, or an OData response object whose
// "value" field holds that array.
func extractRecord(raw []byte) (json.RawMessage, int, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		if !json.Valid(raw) {
			return nil, 0, fmt.Errorf("parsing submission export: %w", err)
		}
		var wrapper struct {
			Value []json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil || len(wrapper.Value) == 0 {
			return nil, 0, ErrNoRecord
		}
		rows = wrapper.Value
	}
	if len(rows) == 0 {
		return nil, 0, ErrNoRecord
	}
	return rows[0], len(rows), nil
}

// parseRecord walks the record object token by token so field order matches
// the document, which a map round-trip would lose. Numbers stay json.Number
// to keep their source formatting.
func parseRecord(record json.RawMessage) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(record))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNoRecord
	}

	var fields []Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading record key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in record", keyTok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("reading value for %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	return fields, nil
}

// TransformFields classifies an ordered field list into metadata and Q&A.
// Every non-system field lands in exactly one of the two outputs; question
// fields with an empty answer are dropped rather than emitted blank.
func TransformFields(fields []Field, schema *Schema) *Result {
	res := &Result{Metadata: make(map[string]string)}
	for _, f := range fields {
		if isSystemKey(f.Key) {
			continue
		}
		key := CleanKey(f.Key)
		if canonical, ok := schema.Canonical(key); ok {
			if schema.IsDate(canonical) {
				res.Metadata[canonical] = FormatDateSerial(f.Value)
			} else {
				res.Metadata[canonical] = Stringify(f.Value)
			}
			continue
		}
		if isEmptyAnswer(f.Value) {
			continue
		}
		res.QA = append(res.QA, QA{Question: key, Answer: Stringify(f.Value)})
	}
	return res
}

// isEmptyAnswer reports whether a question value counts as unanswered:
// null, empty string, numeric zero, false, or an empty collection.
func isEmptyAnswer(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case float64:
		return t == 0
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return false
}

// Stringify renders a scalar value for the report. Strings pass through,
// numbers keep their source formatting, and anything structured falls back
// to compact JSON.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
