package krd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

const bondsFile = `{"name":"OAT 2027","currency":"EUR","asOf":"2025-01-01","weight":0.6,"rate":0.03,"coupons":[{"date":"2026-01-01","amount":5},{"date":"2027-01-01","amount":105}]}
{"name":"Bund 2026","currency":"EUR","asOf":"2025-01-01","weight":0.4,"rates":[0.021,0.022],"coupons":[{"date":"2025-07-01","amount":1},{"date":"2026-01-01","amount":101}]}
`

func TestDecodeEncodeBook(t *testing.T) {
	book, err := DecodeBook(strings.NewReader("\n" + bondsFile + "\n"))
	if err != nil {
		t.Fatalf("DecodeBook() unexpected error: %v", err)
	}
	if book.Len() != 2 {
		t.Fatalf("DecodeBook() got %d bonds, want 2", book.Len())
	}
	oat := book.Bond("OAT 2027")
	if oat == nil || oat.Rate == nil || oat.Rate.String() != "0.03" {
		t.Fatalf("DecodeBook() did not decode the OAT rate: %+v", oat)
	}
	if got := len(book.Bond("Bund 2026").Rates); got != 2 {
		t.Errorf("DecodeBook() Bund has %d rates, want 2", got)
	}

	var buf bytes.Buffer
	if err := EncodeBook(&buf, book); err != nil {
		t.Fatalf("EncodeBook() unexpected error: %v", err)
	}
	if got := buf.String(); got != bondsFile {
		t.Errorf("EncodeBook() is not canonical:\ngot:\n%s\nwant:\n%s", got, bondsFile)
	}
}

func TestDecodeBook_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "not json", input: "{", want: "line 1"},
		{name: "bad date", input: `{"name":"x","asOf":"01/01/2025","rate":0.1,"weight":1,"coupons":[]}`, want: "invalid date"},
		{name: "duplicate", input: strings.Repeat(`{"name":"x","asOf":"2025-01-01","rate":0.1,"weight":1,"coupons":[{"date":"2026-01-01","amount":1}]}`+"\n", 2), want: "declared twice"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeBook(strings.NewReader(tc.input))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("DecodeBook() error = %v, want it to contain %q", err, tc.want)
			}
		})
	}
}

func TestSaveLoadBook(t *testing.T) {
	book, err := DecodeBook(strings.NewReader(bondsFile))
	if err != nil {
		t.Fatalf("DecodeBook() unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "govies.jsonl")
	if err := SaveBook(path, book); err != nil {
		t.Fatalf("SaveBook() unexpected error: %v", err)
	}
	loaded, err := LoadBook(path)
	if err != nil {
		t.Fatalf("LoadBook() unexpected error: %v", err)
	}
	if loaded.Name() != "govies" {
		t.Errorf("LoadBook().Name() = %q, want %q", loaded.Name(), "govies")
	}
	if loaded.Len() != book.Len() {
		t.Errorf("LoadBook() got %d bonds, want %d", loaded.Len(), book.Len())
	}
}
