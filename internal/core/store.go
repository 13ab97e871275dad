package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fixed categories, in the order the wide layout lays them out.
const (
	CategoryFruit     = "fruit"
	CategoryVegetable = "vegetable"
	CategoryMeat      = "meat"
)

var fixedCategories = []string{CategoryFruit, CategoryVegetable, CategoryMeat}

// FixedCategories returns the categories every wide table carries.
func FixedCategories() []string {
	out := make([]string, len(fixedCategories))
	copy(out, fixedCategories)
	return out
}

// Entry is one rated item within a category.
type Entry struct {
	Item   string `json:"item"`
	Rating Rating `json:"rating"`
}

// CategoryEntries is a category with its items in insertion order.
type CategoryEntries struct {
	Category string  `json:"category"`
	Items    []Entry `json:"items"`
}

type itemList struct {
	order   []string
	ratings map[string]Rating
}

// Store is the nested category → item → rating mapping held by a session.
//
// Both categories and items keep their insertion order, which drives display
// and export order. Changing the rating of an existing item does not move it.
// A Store is not safe for concurrent use.
type Store struct {
	order []string
	cats  map[string]*itemList
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{cats: make(map[string]*itemList)}
}

// NewFixedStore returns a store holding the fixed categories, all empty.
func NewFixedStore() *Store {
	s := NewStore()
	for _, c := range fixedCategories {
		s.EnsureCategory(c)
	}
	return s
}

// NormalizeName trims a category or item name and converts it to NFC so
// that visually identical names share one key.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Categories returns the category names in insertion order.
func (s *Store) Categories() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// HasCategory reports whether category is a key of the store.
func (s *Store) HasCategory(category string) bool {
	_, ok := s.cats[NormalizeName(category)]
	return ok
}

// EnsureCategory adds category with no items if it is not present yet.
func (s *Store) EnsureCategory(category string) {
	if category = NormalizeName(category); category != "" {
		s.list(category)
	}
}

func (s *Store) list(category string) *itemList {
	l, ok := s.cats[category]
	if !ok {
		l = &itemList{ratings: make(map[string]Rating)}
		s.cats[category] = l
		s.order = append(s.order, category)
	}
	return l
}

// Items returns the entries of category in insertion order. A missing
// category yields nil.
func (s *Store) Items(category string) []Entry {
	l, ok := s.cats[NormalizeName(category)]
	if !ok {
		return nil
	}
	out := make([]Entry, len(l.order))
	for i, item := range l.order {
		out[i] = Entry{Item: item, Rating: l.ratings[item]}
	}
	return out
}

// CategoryLen returns the number of items in category.
func (s *Store) CategoryLen(category string) int {
	l, ok := s.cats[NormalizeName(category)]
	if !ok {
		return 0
	}
	return len(l.order)
}

// Len returns the number of items across all categories.
func (s *Store) Len() int {
	n := 0
	for _, l := range s.cats {
		n += len(l.order)
	}
	return n
}

// Rating returns the rating of an item and whether it exists.
func (s *Store) Rating(category, item string) (Rating, bool) {
	l, ok := s.cats[NormalizeName(category)]
	if !ok {
		return "", false
	}
	r, ok := l.ratings[NormalizeName(item)]
	return r, ok
}

// Put inserts or overwrites an item, creating its category if needed. An
// overwritten item keeps its original position. Empty names are ignored.
func (s *Store) Put(category, item string, rating Rating) {
	category, item = NormalizeName(category), NormalizeName(item)
	if category == "" || item == "" {
		return
	}
	l := s.list(category)
	if _, exists := l.ratings[item]; !exists {
		l.order = append(l.order, item)
	}
	l.ratings[item] = rating
}

// SetRating changes the rating of an existing item.
func (s *Store) SetRating(category, item string, rating Rating) error {
	if !rating.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRating, string(rating))
	}
	l, ok := s.cats[NormalizeName(category)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	item = NormalizeName(item)
	if _, ok := l.ratings[item]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownItem, category, item)
	}
	l.ratings[item] = rating
	return nil
}

// Add inserts item into category with DefaultRating. It returns false and
// leaves the store unchanged when the item already exists or the name is
// empty.
func (s *Store) Add(category, item string) bool {
	category, item = NormalizeName(category), NormalizeName(item)
	if category == "" || item == "" {
		return false
	}
	if _, exists := s.Rating(category, item); exists {
		return false
	}
	s.Put(category, item, DefaultRating)
	return true
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := NewStore()
	for _, cat := range s.order {
		c.EnsureCategory(cat)
		for _, e := range s.Items(cat) {
			c.Put(cat, e.Item, e.Rating)
		}
	}
	return c
}

// Snapshot returns the whole store as ordered slices.
func (s *Store) Snapshot() []CategoryEntries {
	out := make([]CategoryEntries, len(s.order))
	for i, cat := range s.order {
		out[i] = CategoryEntries{Category: cat, Items: s.Items(cat)}
	}
	return out
}

// StoreFromSnapshot rebuilds a store from ordered slices.
func StoreFromSnapshot(snap []CategoryEntries) *Store {
	s := NewStore()
	for _, ce := range snap {
		s.EnsureCategory(ce.Category)
		for _, e := range ce.Items {
			s.Put(ce.Category, e.Item, e.Rating)
		}
	}
	return s
}

// MarshalJSON encodes the store as a nested JSON object whose key order
// follows insertion order.
func (s *Store) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, cat := range s.order {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeJSONKey(&b, cat); err != nil {
			return nil, err
		}
		b.WriteByte('{')
		l := s.cats[cat]
		for j, item := range l.order {
			if j > 0 {
				b.WriteByte(',')
			}
			if err := writeJSONKey(&b, item); err != nil {
				return nil, err
			}
			v, err := json.Marshal(l.ratings[item])
			if err != nil {
				return nil, err
			}
			b.Write(v)
		}
		b.WriteByte('}')
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func writeJSONKey(b *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	b.Write(k)
	b.WriteByte(':')
	return nil
}
