package krd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/krd/date"
)

// Book is a named, ordered collection of bonds: a portfolio.
type Book struct {
	name  string
	bonds []Bond
}

// NewBook returns a book containing bonds.
func NewBook(name string, bonds ...Bond) *Book {
	return &Book{name: name, bonds: slices.Clone(bonds)}
}

// Name of the book, usually its file name without extension.
func (b *Book) Name() string { return b.name }

// Len returns the number of bonds.
func (b *Book) Len() int { return len(b.bonds) }

// Bonds returns a copy of the bonds, in book order.
func (b *Book) Bonds() []Bond { return slices.Clone(b.bonds) }

// Bond returns the bond with that name, or nil if unknown.
func (b *Book) Bond(name string) *Bond {
	i := slices.IndexFunc(b.bonds, func(x Bond) bool { return x.Name == name })
	if i < 0 {
		return nil
	}
	bond := b.bonds[i]
	return &bond
}

// Append appends bonds to the book.
func (b *Book) Append(bonds ...Bond) { b.bonds = append(b.bonds, bonds...) }

// Validate checks every bond, and that names are unique.
func (b *Book) Validate() error {
	var errs error
	seen := make(map[string]bool)
	for _, bond := range b.bonds {
		errs = errors.Join(errs, bond.Validate())
		if bond.Name != "" && seen[bond.Name] {
			errs = errors.Join(errs, fmt.Errorf("bond %q is declared twice", bond.Name))
		}
		seen[bond.Name] = true
	}
	return errs
}

// Currency returns the currency shared by all bonds.
func (b *Book) Currency() (string, error) {
	cur := ""
	for _, bond := range b.bonds {
		switch {
		case bond.Currency == "":
		case cur == "":
			cur = bond.Currency
		case cur != bond.Currency:
			return "", fmt.Errorf("bonds in %s and %s cannot be mixed in a single book", cur, bond.Currency)
		}
	}
	return cur, nil
}

// Positions prepares every bond for valuation, after aligning them on the union of
// their payment dates. It returns the positions and the common payment dates.
func (b *Book) Positions(c Convention, mode Compounding) ([]Position, []date.Date, error) {
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}
	aligned, grid, err := Align(b.bonds)
	if err != nil {
		return nil, nil, err
	}
	positions := make([]Position, len(aligned))
	for i, bond := range aligned {
		if positions[i], err = bond.Position(c, mode); err != nil {
			return nil, nil, err
		}
	}
	return positions, grid, nil
}

// LoadBook opens and decodes a bonds file. The book is named after the file.
func LoadBook(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open bonds file %q: %w", path, err)
	}
	defer f.Close()

	book, err := DecodeBook(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode bonds file %q: %w", path, err)
	}
	book.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return book, nil
}

// SaveBook encodes the book into path, replacing its content.
func SaveBook(path string, book *Book) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create bonds file %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return EncodeBook(f, book)
}
