package submission

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestTransform_ArrayShape(t *testing.T) {
	raw := []byte(`[{"Name":"A","Q1":"yes"}]`)
	res, err := Transform(raw, DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	wantMeta := map[string]string{"Name": "A"}
	if !reflect.DeepEqual(res.Metadata, wantMeta) {
		t.Errorf("Metadata = %v, want %v", res.Metadata, wantMeta)
	}
	wantQA := []QA{{Question: "Q1", Answer: "yes"}}
	if !reflect.DeepEqual(res.QA, wantQA) {
		t.Errorf("QA = %v, want %v", res.QA, wantQA)
	}
	if res.RecordCount != 1 {
		t.Errorf("RecordCount = %d, want 1", res.RecordCount)
	}
}

func TestTransform_ODataShape(t *testing.T) {
	raw := []byte(`{"@odata.context":"ctx","value":[{"Email":"a@b.com","Skill":"Go"},{"Email":"x@y.com"}]}`)
	res, err := Transform(raw, DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	if res.Metadata["Email"] != "a@b.com" {
		t.Errorf("Email = %q, want first record's", res.Metadata["Email"])
	}
	if res.RecordCount != 2 {
		t.Errorf("RecordCount = %d, want 2", res.RecordCount)
	}
}

func TestTransform_ExtractionFailures(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantParse bool // true: parse error, false: ErrNoRecord
	}{
		{"empty array", `[]`, false},
		{"not json", `not json`, true},
		{"wrapper without value", `{"records":[{"Name":"A"}]}`, false},
		{"wrapper with empty value", `{"value":[]}`, false},
		{"scalar top level", `42`, false},
		{"record is not an object", `["just a string"]`, false},
		{"truncated json", `[{"Name":"A"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Transform([]byte(tt.raw), DefaultSchema())
			if err == nil {
				t.Fatalf("expected error, got result %+v", res)
			}
			isNoRecord := errors.Is(err, ErrNoRecord)
			if tt.wantParse && isNoRecord {
				t.Errorf("want parse error, got %v", err)
			}
			if !tt.wantParse && !isNoRecord {
				t.Errorf("want ErrNoRecord, got %v", err)
			}
		})
	}
}

func TestTransform_EndToEnd(t *testing.T) {
	raw := []byte(`[{"Email":"a@b.com","Completion time":1,"Skill":"Go"}]`)
	res, err := Transform(raw, DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	wantMeta := map[string]string{
		"Email":           "a@b.com",
		"Completion time": "December 31, 1899",
	}
	if !reflect.DeepEqual(res.Metadata, wantMeta) {
		t.Errorf("Metadata = %v, want %v", res.Metadata, wantMeta)
	}
	wantQA := []QA{{Question: "Skill", Answer: "Go"}}
	if !reflect.DeepEqual(res.QA, wantQA) {
		t.Errorf("QA = %v, want %v", res.QA, wantQA)
	}
}

func TestTransform_SystemKeysSkipped(t *testing.T) {
	raw := []byte(`[{"@odata.etag":"W/\"1\"","Name":"A","Q":"x"}]`)
	res, err := Transform(raw, DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Metadata) != 1 || len(res.QA) != 1 {
		t.Errorf("system key leaked: metadata %v, qa %v", res.Metadata, res.QA)
	}
}

func TestTransform_ClassificationCaseInsensitive(t *testing.T) {
	raw := []byte(`[{"email":"a@b.com","EMAIL1":"c@d.com"}]`)
	res, err := Transform(raw, DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	if res.Metadata["Email"] != "a@b.com" {
		t.Errorf("lowercase email not canonicalized: %v", res.Metadata)
	}
	if res.Metadata["Email1"] != "c@d.com" {
		t.Errorf("EMAIL1 not canonicalized: %v", res.Metadata)
	}
	if len(res.QA) != 0 {
		t.Errorf("bio fields leaked into QA: %v", res.QA)
	}
}

func TestTransformFields_EmptyAnswersDropped(t *testing.T) {
	fields := []Field{
		{Key: "Blank", Value: ""},
		{Key: "Null", Value: nil},
		{Key: "Zero", Value: float64(0)},
		{Key: "False", Value: false},
		{Key: "ZeroString", Value: "0"},
		{Key: "Number", Value: float64(7)},
	}
	res := TransformFields(fields, DefaultSchema())
	want := []QA{
		{Question: "ZeroString", Answer: "0"},
		{Question: "Number", Answer: "7"},
	}
	if !reflect.DeepEqual(res.QA, want) {
		t.Errorf("QA = %v, want %v", res.QA, want)
	}
}

func TestTransform_QAOrderPreserved(t *testing.T) {
	raw := []byte(`[{"Z question":"1","A question":"2","M question":"3"}]`)
	res, err := Transform(raw, DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	got := []string{}
	for _, qa := range res.QA {
		got = append(got, qa.Question)
	}
	want := []string{"Z question", "A question", "M question"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("question order = %v, want %v", got, want)
	}
}

func TestTransform_VersionedURLCollapse(t *testing.T) {
	raw := []byte(`[{"LinkedIn Profile URL":"https://a","LinkedIn Profile URL2":"https://b"}]`)
	res, err := Transform(raw, DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	// Both keys collapse to one canonical name; document order makes the
	// later key win.
	if got := res.Metadata["LinkedIn Profile URL"]; got != "https://b" {
		t.Errorf("LinkedIn Profile URL = %q, want last-processed value", got)
	}
	if len(res.Metadata) != 1 {
		t.Errorf("Metadata = %v, want a single collapsed key", res.Metadata)
	}
}

func TestTransform_EveryFieldRoutedOnce(t *testing.T) {
	raw := []byte(`[{"@odata.etag":"e","ID":2,"Email":"a@b.com","Q1":"ans","Q2":null,"Q3":"x"}]`)
	res, err := Transform(raw, DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	// Non-system fields: ID, Email -> metadata; Q1, Q3 -> QA; Q2 dropped
	// by the empty-answer rule.
	if len(res.Metadata) != 2 {
		t.Errorf("Metadata = %v", res.Metadata)
	}
	if len(res.QA) != 2 {
		t.Errorf("QA = %v", res.QA)
	}
	for _, qa := range res.QA {
		if _, ok := res.Metadata[qa.Question]; ok {
			t.Errorf("field %q routed to both outputs", qa.Question)
		}
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"string passes through", "hello", "hello"},
		{"integer number keeps formatting", json.Number("2024"), "2024"},
		{"fractional number keeps formatting", json.Number("3.5"), "3.5"},
		{"bool renders", true, "true"},
		{"nil renders empty", nil, ""},
		{"slice falls back to json", []interface{}{"a", "b"}, `["a","b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.value); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestSchema_CustomFields(t *testing.T) {
	s := NewSchema([]string{"Badge Number", "Hired On"}, []string{"Hired On"})
	if c, ok := s.Canonical("badge number"); !ok || c != "Badge Number" {
		t.Errorf("Canonical(badge number) = %q, %v", c, ok)
	}
	if !s.IsDate("Hired On") {
		t.Error("Hired On should be date-valued")
	}
	if s.IsDate("Badge Number") {
		t.Error("Badge Number should not be date-valued")
	}
	if _, ok := s.Canonical("Email"); ok {
		t.Error("custom schema should not know default fields")
	}
}
