package core

// codec.go converts a Store into the two flat layouts used for file exchange.
//
// Long layout, one row per item:
//
//	food_type,food,rating
//	fruit,apple,like
//	vegetable,carrot,dislike
//
// Wide layout, fixed categories side by side. Row i of one category has no
// relation to row i of another; shorter categories trail off into empty
// cells:
//
//	fruit,fruit_rating,vegetable,vegetable_rating,meat,meat_rating
//	apple,like,carrot,dislike,,
//	banana,love,,,,

import (
	"fmt"
	"strings"
)

// Long layout column names.
const (
	ColumnFoodType = "food_type"
	ColumnFood     = "food"
	ColumnRating   = "rating"
)

// ratingSuffix turns a category column name into its rating column name.
const ratingSuffix = "_rating"

// Table is a header plus string rows, the in-memory form of a CSV file.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the named column, matched case-insensitively
// after trimming, or -1 if absent.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value at row, col. Out-of-range positions, as
// found in short CSV records, read as empty.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// AddColumn appends a column with every cell set to fill and returns its
// index.
func (t *Table) AddColumn(name, fill string) int {
	t.Header = append(t.Header, name)
	idx := len(t.Header) - 1
	for i, row := range t.Rows {
		for len(row) < idx {
			row = append(row, "")
		}
		t.Rows[i] = append(row, fill)
	}
	return idx
}

// RatingColumn returns the wide-layout rating column name for a category.
func RatingColumn(category string) string {
	return category + ratingSuffix
}

// LongHeader returns the header of the long layout.
func LongHeader() []string {
	return []string{ColumnFoodType, ColumnFood, ColumnRating}
}

// WideHeader returns the header of the wide layout.
func WideHeader() []string {
	h := make([]string, 0, 2*len(fixedCategories))
	for _, c := range fixedCategories {
		h = append(h, c, RatingColumn(c))
	}
	return h
}

// EncodeLong produces one row per item, categories in store order and items
// in insertion order.
func EncodeLong(s *Store) (*Table, error) {
	t := &Table{Header: LongHeader(), Rows: make([][]string, 0, s.Len())}
	for _, cat := range s.Categories() {
		for _, e := range s.Items(cat) {
			t.Rows = append(t.Rows, []string{cat, e.Item, string(e.Rating)})
		}
	}
	return t, nil
}

// EncodeWide lays the fixed categories out side by side, padding shorter
// categories with empty cells up to the longest one. Every fixed category
// must be a key of the store, even if it has no items. Categories outside
// the fixed set cannot be represented and are left out.
func EncodeWide(s *Store) (*Table, error) {
	maxLen := 0
	for _, c := range fixedCategories {
		if !s.HasCategory(c) {
			return nil, fmt.Errorf("encode wide: %w: %s", ErrMissingCategory, c)
		}
		if n := s.CategoryLen(c); n > maxLen {
			maxLen = n
		}
	}

	t := &Table{Header: WideHeader(), Rows: make([][]string, maxLen)}
	for i := range t.Rows {
		t.Rows[i] = make([]string, len(t.Header))
	}
	for ci, c := range fixedCategories {
		for ri, e := range s.Items(c) {
			t.Rows[ri][2*ci] = e.Item
			t.Rows[ri][2*ci+1] = string(e.Rating)
		}
	}
	return t, nil
}

// UnencodedCategories returns the store categories the wide layout drops.
func UnencodedCategories(s *Store) []string {
	var out []string
	for _, c := range s.Categories() {
		if !isFixedCategory(c) {
			out = append(out, c)
		}
	}
	return out
}

func isFixedCategory(c string) bool {
	for _, f := range fixedCategories {
		if f == c {
			return true
		}
	}
	return false
}
