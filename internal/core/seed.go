package core

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedCategory is one category of a seed document. A list of these keeps
// category and item order, which a YAML mapping would not.
type SeedCategory struct {
	Category string     `yaml:"category"`
	Items    []SeedItem `yaml:"items"`
}

// SeedItem is one rated item of a seed document. An empty rating means
// DefaultRating.
type SeedItem struct {
	Name   string `yaml:"name"`
	Rating string `yaml:"rating"`
}

// DefaultSeed returns the store new sessions start with when no seed file
// is configured.
func DefaultSeed() *Store {
	s := NewStore()
	s.Put(CategoryFruit, "apple", RatingLike)
	s.Put(CategoryFruit, "banana", RatingLove)
	s.Put(CategoryFruit, "cherry", RatingDislike)
	s.Put(CategoryVegetable, "carrot", RatingDislike)
	s.Put(CategoryVegetable, "pea", RatingLove)
	s.Put(CategoryVegetable, "potato", RatingDislike)
	s.Put(CategoryMeat, "beef", RatingIndifferent)
	s.Put(CategoryMeat, "chicken", RatingLike)
	s.Put(CategoryMeat, "pork", RatingLove)
	return s
}

// LoadSeedFile reads a YAML seed document from path.
func LoadSeedFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	s, err := ParseSeed(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return s, nil
}

// ParseSeed decodes a YAML seed document. Ratings must be valid labels; the
// fixed categories are added if the document leaves them out.
func ParseSeed(r io.Reader) (*Store, error) {
	var doc []SeedCategory
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}

	s := NewStore()
	for _, c := range doc {
		if NormalizeName(c.Category) == "" {
			return nil, fmt.Errorf("seed category without a name")
		}
		s.EnsureCategory(c.Category)
		for _, it := range c.Items {
			rating := DefaultRating
			if it.Rating != "" {
				r, err := ParseRating(it.Rating)
				if err != nil {
					return nil, fmt.Errorf("%s/%s: %w", c.Category, it.Name, err)
				}
				rating = r
			}
			s.Put(c.Category, it.Name, rating)
		}
	}
	for _, c := range fixedCategories {
		s.EnsureCategory(c)
	}
	return s, nil
}

// MarshalSeed encodes a store as a YAML seed document.
func MarshalSeed(s *Store) ([]byte, error) {
	doc := make([]SeedCategory, 0, len(s.Categories()))
	for _, ce := range s.Snapshot() {
		sc := SeedCategory{Category: ce.Category, Items: make([]SeedItem, len(ce.Items))}
		for i, e := range ce.Items {
			sc.Items[i] = SeedItem{Name: e.Item, Rating: string(e.Rating)}
		}
		doc = append(doc, sc)
	}
	return yaml.Marshal(doc)
}
