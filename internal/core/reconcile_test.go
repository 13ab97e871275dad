package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReconcileWide(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		want  []CategoryEntries
	}{
		{
			name: "complete table",
			table: &Table{
				Header: WideHeader(),
				Rows: [][]string{
					{"apple", "like", "carrot", "dislike", "beef", "love"},
					{"banana", "love", "", "", "", ""},
				},
			},
			want: []CategoryEntries{
				{Category: "fruit", Items: []Entry{{"apple", RatingLike}, {"banana", RatingLove}}},
				{Category: "vegetable", Items: []Entry{{"carrot", RatingDislike}}},
				{Category: "meat", Items: []Entry{{"beef", RatingLove}}},
			},
		},
		{
			name: "missing rating columns become review",
			table: &Table{
				Header: []string{"fruit", "vegetable", "vegetable_rating"},
				Rows: [][]string{
					{"apple", "pea", "like"},
				},
			},
			want: []CategoryEntries{
				{Category: "fruit", Items: []Entry{{"apple", RatingReview}}},
				{Category: "vegetable", Items: []Entry{{"pea", RatingLike}}},
				{Category: "meat", Items: []Entry{}},
			},
		},
		{
			name: "empty item with rating contributes nothing",
			table: &Table{
				Header: []string{"fruit", "fruit_rating"},
				Rows: [][]string{
					{"", "love"},
					{"kiwi", ""},
				},
			},
			want: []CategoryEntries{
				{Category: "fruit", Items: []Entry{{"kiwi", RatingReview}}},
				{Category: "vegetable", Items: []Entry{}},
				{Category: "meat", Items: []Entry{}},
			},
		},
		{
			// Rows of different categories are unrelated: row two has no
			// fruit but still carries a vegetable.
			name: "positional rows",
			table: &Table{
				Header: []string{"fruit", "fruit_rating", "vegetable", "vegetable_rating"},
				Rows: [][]string{
					{"apple", "love", "carrot", ""},
					{"", "", "pea", "like"},
				},
			},
			want: []CategoryEntries{
				{Category: "fruit", Items: []Entry{{"apple", RatingLove}}},
				{Category: "vegetable", Items: []Entry{{"carrot", RatingReview}, {"pea", RatingLike}}},
				{Category: "meat", Items: []Entry{}},
			},
		},
		{
			name: "unknown rating label becomes review",
			table: &Table{
				Header: []string{"meat", "meat_rating"},
				Rows:   [][]string{{"pork", "adore"}, {"beef", "DISLIKE"}},
			},
			want: []CategoryEntries{
				{Category: "fruit", Items: []Entry{}},
				{Category: "vegetable", Items: []Entry{}},
				{Category: "meat", Items: []Entry{{"pork", RatingReview}, {"beef", RatingDislike}}},
			},
		},
		{
			name: "repeated item keeps first position and last rating",
			table: &Table{
				Header: []string{"fruit", "fruit_rating"},
				Rows:   [][]string{{"apple", "like"}, {"pear", "love"}, {"apple", "dislike"}},
			},
			want: []CategoryEntries{
				{Category: "fruit", Items: []Entry{{"apple", RatingDislike}, {"pear", RatingLove}}},
				{Category: "vegetable", Items: []Entry{}},
				{Category: "meat", Items: []Entry{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReconcileWide(tt.table)
			if err != nil {
				t.Fatalf("ReconcileWide() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got.Snapshot()); diff != "" {
				t.Errorf("ReconcileWide() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconcileWide_EmptyRatingCell(t *testing.T) {
	tbl := &Table{
		Header: []string{"fruit", "fruit_rating", "vegetable", "vegetable_rating"},
		Rows: [][]string{
			{"apple", "", "carrot", ""},
			{"", "", "pea", "like"},
		},
	}

	got, err := ReconcileWide(tbl)
	if err != nil {
		t.Fatalf("ReconcileWide() error = %v", err)
	}
	if r, _ := got.Rating("fruit", "apple"); r != RatingReview {
		t.Errorf("apple = %q, want review", r)
	}
	if r, _ := got.Rating("vegetable", "carrot"); r != RatingReview {
		t.Errorf("carrot = %q, want review", r)
	}
	if r, _ := got.Rating("vegetable", "pea"); r != RatingLike {
		t.Errorf("pea = %q, want like", r)
	}
}

func TestReconcileWide_SynthesisesColumns(t *testing.T) {
	tbl := &Table{
		Header: []string{"fruit", "meat"},
		Rows:   [][]string{{"apple", "beef"}},
	}
	if _, err := ReconcileWide(tbl); err != nil {
		t.Fatalf("ReconcileWide() error = %v", err)
	}

	want := []string{"fruit", "meat", "fruit_rating", "meat_rating"}
	if diff := cmp.Diff(want, tbl.Header); diff != "" {
		t.Errorf("Header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"apple", "beef", "review", "review"}, tbl.Rows[0]); diff != "" {
		t.Errorf("Row mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileWide_Unrecognized(t *testing.T) {
	tbl := &Table{Header: []string{"name", "score"}, Rows: [][]string{{"apple", "1"}}}
	if _, err := ReconcileWide(tbl); !errors.Is(err, ErrUnrecognizedTable) {
		t.Fatalf("ReconcileWide() error = %v, want ErrUnrecognizedTable", err)
	}
}

func TestReconcileWide_RoundTrip(t *testing.T) {
	s := DefaultSeed()
	s.Add("fruit", "kiwi")

	tbl, err := EncodeWide(s)
	if err != nil {
		t.Fatalf("EncodeWide() error = %v", err)
	}
	back, err := ReconcileWide(tbl)
	if err != nil {
		t.Fatalf("ReconcileWide() error = %v", err)
	}
	if diff := cmp.Diff(s.Snapshot(), back.Snapshot()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileLong(t *testing.T) {
	tbl := &Table{
		Header: []string{"Food_Type", "food", "rating"},
		Rows: [][]string{
			{"dairy", "milk", "love"},
			{"fruit", "apple", ""},
			{"", "orphan", "like"},
			{"meat", "", "like"},
			{"fruit", "cherry", "hate"},
		},
	}

	got, err := ReconcileLong(tbl)
	if err != nil {
		t.Fatalf("ReconcileLong() error = %v", err)
	}

	want := []CategoryEntries{
		{Category: "fruit", Items: []Entry{{"apple", RatingReview}, {"cherry", RatingReview}}},
		{Category: "vegetable", Items: []Entry{}},
		{Category: "meat", Items: []Entry{}},
		{Category: "dairy", Items: []Entry{{"milk", RatingLove}}},
	}
	if diff := cmp.Diff(want, got.Snapshot()); diff != "" {
		t.Errorf("ReconcileLong() mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileLong_NoRatingColumn(t *testing.T) {
	tbl := &Table{Header: []string{"food_type", "food"}, Rows: [][]string{{"fruit", "fig"}}}

	got, err := ReconcileLong(tbl)
	if err != nil {
		t.Fatalf("ReconcileLong() error = %v", err)
	}
	if r, _ := got.Rating("fruit", "fig"); r != RatingReview {
		t.Errorf("fig = %q, want review", r)
	}
}

func TestReconcileLong_MissingColumns(t *testing.T) {
	tbl := &Table{Header: []string{"food_type", "rating"}}
	if _, err := ReconcileLong(tbl); !errors.Is(err, ErrUnrecognizedTable) {
		t.Fatalf("ReconcileLong() error = %v, want ErrUnrecognizedTable", err)
	}
}

func TestReconcile_DetectsLayout(t *testing.T) {
	long := &Table{Header: LongHeader(), Rows: [][]string{{"fruit", "apple", "love"}}}
	wide := &Table{Header: WideHeader(), Rows: [][]string{{"apple", "love", "", "", "", ""}}}

	for name, tbl := range map[string]*Table{"long": long, "wide": wide} {
		t.Run(name, func(t *testing.T) {
			got, err := Reconcile(tbl)
			if err != nil {
				t.Fatalf("Reconcile() error = %v", err)
			}
			if r, _ := got.Rating("fruit", "apple"); r != RatingLove {
				t.Errorf("apple = %q, want love", r)
			}
		})
	}
}
