package output

import (
	"bytes"
	"strings"
	"testing"
)

type runs []struct {
	ID      string `json:"id" yaml:"id"`
	Trigger string `json:"trigger" yaml:"trigger"`
}

func (r runs) Headers() []string { return []string{"ID", "TRIGGER"} }

func (r runs) Rows() [][]string {
	var rows [][]string
	for _, x := range r {
		rows = append(rows, []string{x.ID, x.Trigger})
	}
	return rows
}

func sample() runs {
	return runs{
		{ID: "01J00000000000000000000001", Trigger: "signal"},
		{ID: "01J00000000000000000000002", Trigger: "idle"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.input, got, err)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json should give JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml should give YAMLFormatter")
	}
	if _, ok := NewFormatter("other").(*TableFormatter); !ok {
		t.Error("default should be TableFormatter")
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, sample()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "TRIGGER") {
		t.Errorf("header = %q", lines[0])
	}
	// Columns are aligned.
	if strings.Index(lines[1], "signal") != strings.Index(lines[0], "TRIGGER") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, sample()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "TRIGGER") {
		t.Errorf("headers printed: %s", buf.String())
	}
}

func TestTableFormatter_FallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, map[string]int{"n": 1}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"n": 1`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, sample()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"trigger": "signal"`) {
		t.Errorf("output = %s", buf.String())
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, sample()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "trigger: signal") {
		t.Errorf("output = %s", buf.String())
	}
}
