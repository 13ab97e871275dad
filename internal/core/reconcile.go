package core

import "fmt"

// ReconcileWide rebuilds a store from a wide table of uncertain shape.
//
// Missing rating columns are synthesised with DefaultRating in every cell.
// Rows are read positionally: an item with an empty rating cell gets
// DefaultRating, and an empty item cell contributes nothing for that
// category even when its rating cell is filled. Items are inserted in row
// order. The result always holds the fixed categories.
//
// The table is modified when rating columns are synthesised. A table with
// none of the fixed category columns is rejected.
func ReconcileWide(t *Table) (*Store, error) {
	type columns struct {
		category string
		item     int
		rating   int
	}

	var cols []columns
	for _, c := range fixedCategories {
		item := t.Column(c)
		if item < 0 {
			continue
		}
		rating := t.Column(RatingColumn(c))
		if rating < 0 {
			rating = t.AddColumn(RatingColumn(c), string(DefaultRating))
		}
		cols = append(cols, columns{category: c, item: item, rating: rating})
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no category columns in header %v", ErrUnrecognizedTable, t.Header)
	}

	s := NewFixedStore()
	for row := range t.Rows {
		for _, col := range cols {
			item := t.Cell(row, col.item)
			if item == "" {
				continue
			}
			s.Put(col.category, item, ratingOrDefault(t.Cell(row, col.rating)))
		}
	}
	return s, nil
}

// ReconcileLong rebuilds a store from a long table. The rating column is
// optional and empty or unknown ratings become DefaultRating. Rows missing
// a category or item are skipped. Categories keep their first-seen order
// after the fixed ones, which are always present so the result can be
// written in the wide layout.
func ReconcileLong(t *Table) (*Store, error) {
	catCol := t.Column(ColumnFoodType)
	itemCol := t.Column(ColumnFood)
	if catCol < 0 || itemCol < 0 {
		return nil, fmt.Errorf("%w: long layout needs %s and %s columns", ErrUnrecognizedTable, ColumnFoodType, ColumnFood)
	}
	ratingCol := t.Column(ColumnRating)

	s := NewFixedStore()
	for row := range t.Rows {
		cat, item := t.Cell(row, catCol), t.Cell(row, itemCol)
		if cat == "" || item == "" {
			continue
		}
		s.Put(cat, item, ratingOrDefault(t.Cell(row, ratingCol)))
	}
	return s, nil
}

// IsLongTable reports whether the header looks like the long layout.
func IsLongTable(t *Table) bool {
	return t.Column(ColumnFoodType) >= 0
}

// Reconcile picks the long or wide layout from the table header and runs
// its reconciler.
func Reconcile(t *Table) (*Store, error) {
	key := "wide"
	if IsLongTable(t) {
		key = "long"
	}
	l, err := GetLayout(key)
	if err != nil {
		return nil, err
	}
	return l.Reconcile(t)
}
