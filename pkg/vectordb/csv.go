// Package vectordb stores pre-embedded document collections in PostgreSQL
// with pgvector and answers nearest-neighbour queries over them.
//
// Input arrives as CSV files with a text column and an embedding column. The
// embedding cell holds a JSON numeric array; exports from Python tooling
// often carry single quotes instead of valid JSON double quotes, so the
// parser tolerates both.
package vectordb

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one document row: its text and its embedding vector.
type Record struct {
	Text      string
	Embedding []float32
}

// LoadCSV reads all records from the CSV file at path. The file must have a
// header row naming a "text" and an "embedding" column; other columns are
// ignored. All embeddings must share one dimension.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vectordb: open csv: %w", err)
	}
	defer f.Close()

	records, err := ParseRecords(f)
	if err != nil {
		return nil, fmt.Errorf("vectordb: %s: %w", path, err)
	}
	return records, nil
}

// ParseRecords reads CSV records from r. See LoadCSV for the format.
func ParseRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	textCol, embCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "text":
			textCol = i
		case "embedding":
			embCol = i
		}
	}
	if textCol < 0 || embCol < 0 {
		return nil, fmt.Errorf("csv header must contain text and embedding columns, got %v", header)
	}

	var records []Record
	dims := 0
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}
		if textCol >= len(fields) || embCol >= len(fields) {
			return nil, fmt.Errorf("csv row %d has %d fields, need at least %d", row, len(fields), max(textCol, embCol)+1)
		}

		embedding, err := parseEmbedding(fields[embCol])
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", row, err)
		}
		if dims == 0 {
			dims = len(embedding)
		} else if len(embedding) != dims {
			return nil, fmt.Errorf("csv row %d: embedding has %d dimensions, want %d", row, len(embedding), dims)
		}

		records = append(records, Record{
			Text:      fields[textCol],
			Embedding: embedding,
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv contains no data rows")
	}
	return records, nil
}

// parseEmbedding unmarshals a JSON numeric array, normalizing single quotes
// to double quotes first.
func parseEmbedding(cell string) ([]float32, error) {
	cell = strings.TrimSpace(strings.ReplaceAll(cell, "'", `"`))
	if cell == "" {
		return nil, fmt.Errorf("embedding cell is empty")
	}

	var vec []float32
	if err := json.Unmarshal([]byte(cell), &vec); err != nil {
		return nil, fmt.Errorf("parse embedding: %w", err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("embedding array is empty")
	}
	return vec, nil
}
