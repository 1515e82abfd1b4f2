package krd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/krd/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// jbond is the bond object as written in a bonds file.
type jbond struct {
	Name     string            `json:"name"`
	Currency string            `json:"currency"`
	AsOf     date.Date         `json:"asOf"`
	Weight   decimal.Decimal   `json:"weight"`
	Rate     *decimal.Decimal  `json:"rate"`
	Rates    []decimal.Decimal `json:"rates"`
	Coupons  []Coupon          `json:"coupons"`
}

// MarshalJSON writes the bond fields in a canonical order.
func (b Bond) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", b.Name)
	w.Optional("currency", b.Currency)
	w.Append("asOf", b.AsOf)
	w.Append("weight", b.Weight)
	if b.Rate != nil {
		w.Append("rate", *b.Rate)
	}
	w.Optional("rates", b.Rates)
	w.Append("coupons", b.Coupons)
	return w.MarshalJSON()
}

func (b *Bond) UnmarshalJSON(data []byte) error {
	var j jbond
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*b = Bond{
		Name:     j.Name,
		Currency: j.Currency,
		AsOf:     j.AsOf,
		Coupons:  j.Coupons,
		Rate:     j.Rate,
		Rates:    j.Rates,
		Weight:   j.Weight,
	}
	return nil
}

// DecodeBook decodes bonds from a stream of JSONL data, one bond per line.
//
// Bonds are validated, all invalid lines are reported.
func DecodeBook(r io.Reader) (*Book, error) {
	book := NewBook("")
	scanner := bufio.NewScanner(r)
	// coupon schedules of long bonds make long lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(strings.TrimSpace(string(text))) == 0 {
			continue // Skip empty lines
		}
		var b Bond
		if err := json.Unmarshal(text, &b); err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", line, err)
		}
		book.Append(b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read bonds: %w", err)
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// EncodeBond writes a single bond as a JSON line.
func EncodeBond(w io.Writer, b Bond) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("could not encode bond %q: %w", b.Name, err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// EncodeBook writes every bond of the book, in the book order, one per line.
func EncodeBook(w io.Writer, book *Book) error {
	for _, b := range book.bonds {
		if err := EncodeBond(w, b); err != nil {
			return err
		}
	}
	return nil
}
