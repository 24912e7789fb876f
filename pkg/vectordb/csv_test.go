package vectordb_test

import (
	"strings"
	"testing"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/vectordb"
)

func TestParseRecords(t *testing.T) {
	t.Parallel()

	const csv = `text,embedding
"first document","[0.1, 0.2, 0.3]"
"second document","[0.4, 0.5, 0.6]"
`

	records, err := vectordb.ParseRecords(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Text != "first document" {
		t.Errorf("Text = %q", records[0].Text)
	}
	want := []float32{0.1, 0.2, 0.3}
	for i, v := range want {
		if records[0].Embedding[i] != v {
			t.Errorf("Embedding[%d] = %v, want %v", i, records[0].Embedding[i], v)
		}
	}
}

func TestParseRecordsSingleQuotedEmbedding(t *testing.T) {
	t.Parallel()

	// Python repr-style export: single quotes instead of JSON double quotes
	// inside the cell.
	const csv = `text,embedding
"doc","['0.25', '0.75']"
`

	records, err := vectordb.ParseRecords(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(records) != 1 || len(records[0].Embedding) != 2 {
		t.Fatalf("records = %+v", records)
	}
	if records[0].Embedding[0] != 0.25 || records[0].Embedding[1] != 0.75 {
		t.Errorf("Embedding = %v, want [0.25 0.75]", records[0].Embedding)
	}
}

func TestParseRecordsExtraColumnsIgnored(t *testing.T) {
	t.Parallel()

	const csv = `id,text,source,embedding
1,"doc one","a.pdf","[1, 2]"
2,"doc two","b.pdf","[3, 4]"
`

	records, err := vectordb.ParseRecords(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(records) != 2 || records[1].Text != "doc two" {
		t.Errorf("records = %+v", records)
	}
}

func TestParseRecordsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
	}{
		{"empty input", ""},
		{"missing embedding column", "text,vector\nfoo,\"[1]\"\n"},
		{"missing text column", "content,embedding\nfoo,\"[1]\"\n"},
		{"no data rows", "text,embedding\n"},
		{"malformed embedding", "text,embedding\nfoo,\"not json\"\n"},
		{"empty embedding", "text,embedding\nfoo,\"[]\"\n"},
		{"inconsistent dimensions", "text,embedding\na,\"[1, 2]\"\nb,\"[1, 2, 3]\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := vectordb.ParseRecords(strings.NewReader(tt.csv)); err == nil {
				t.Error("ParseRecords: want error")
			}
		})
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := vectordb.LoadCSV("/does/not/exist.csv"); err == nil {
		t.Error("LoadCSV: want error for missing file")
	}
}
