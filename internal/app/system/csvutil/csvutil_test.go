package csvutil

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

func TestWriter_QuotesEveryField(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Write([]string{"ФИО", "ИНН"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write([]string{`ООО "Рога, Копыта"`, ""}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := BOM + "\"ФИО\",\"ИНН\"\r\n\"ООО \"\"Рога, Копыта\"\"\",\"\"\r\n"
	if buf.String() != want {
		t.Errorf("output mismatch\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestWriter_RoundTripsThroughCSVReader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	rows := [][]string{
		{"a", "b,c", "line1\nline2"},
		{`"quoted"`, "", "x"},
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	got, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), BOM))).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(got))
	}
	for i := range rows {
		for j := range rows[i] {
			if got[i][j] != rows[i][j] {
				t.Errorf("row %d col %d: got %q want %q", i, j, got[i][j], rows[i][j])
			}
		}
	}
}
