package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPreviewLoad_Wide(t *testing.T) {
	current := DefaultSeed()
	tbl := &Table{
		Header: []string{"fruit", "fruit_rating", "vegetable", "vegetable_rating"},
		Rows: [][]string{
			{"apple", "love", "pea", "love"},
			{"kiwi", "adore", "", "like"},
			{"apple", "", "carrot", ""},
		},
	}
	header := append([]string(nil), tbl.Header...)

	got, err := PreviewLoad(current, tbl)
	if err != nil {
		t.Fatalf("PreviewLoad() error = %v", err)
	}

	wantSummary := PreviewSummary{
		Layout:     "wide",
		TotalRows:  3,
		Items:      4, // apple, kiwi, pea, carrot
		Added:      1, // kiwi
		Changed:    2, // apple like->review, carrot dislike->review
		Removed:    6, // banana, cherry, potato and all of meat
		Defaulted:  3,
		Skipped:    1,
		Duplicates: 1,
	}
	if diff := cmp.Diff(wantSummary, got.Summary); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}

	wantIssues := []CellIssue{
		{LineNumber: 3, Category: "fruit", Item: "kiwi", Value: "adore", Problem: ProblemUnknownRating},
		{LineNumber: 3, Category: "vegetable", Value: "like", Problem: ProblemNoItem},
		{LineNumber: 4, Category: "fruit", Item: "apple", Problem: ProblemDuplicate},
	}
	if diff := cmp.Diff(wantIssues, got.IssueSamples); diff != "" {
		t.Errorf("IssueSamples mismatch (-want +got):\n%s", diff)
	}

	wantDiffs := []RatingDiff{
		{Category: "fruit", Item: "apple", Current: RatingLike, Incoming: RatingReview},
		{Category: "vegetable", Item: "carrot", Current: RatingDislike, Incoming: RatingReview},
	}
	if diff := cmp.Diff(wantDiffs, got.RatingDiffs); diff != "" {
		t.Errorf("RatingDiffs mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(header, tbl.Header); diff != "" {
		t.Errorf("PreviewLoad modified the table header (-want +got):\n%s", diff)
	}
	if r, _ := current.Rating("fruit", "apple"); r != RatingLike {
		t.Errorf("PreviewLoad modified the current store: apple = %q", r)
	}
}

func TestPreviewLoad_Long(t *testing.T) {
	tbl := &Table{
		Header: LongHeader(),
		Rows: [][]string{
			{"dairy", "milk", "like"},
			{"fruit", "apple", "like"},
		},
	}

	got, err := PreviewLoad(DefaultSeed(), tbl)
	if err != nil {
		t.Fatalf("PreviewLoad() error = %v", err)
	}
	if got.Summary.Layout != "long" || got.Summary.Added != 1 || got.Summary.Changed != 0 {
		t.Errorf("Summary = %+v, want long layout with one added item", got.Summary)
	}
	want := []ItemPreview{{Category: "dairy", Item: "milk", Rating: RatingLike}}
	if diff := cmp.Diff(want, got.AddedSamples); diff != "" {
		t.Errorf("AddedSamples mismatch (-want +got):\n%s", diff)
	}
	if len(got.IssueSamples) != 0 {
		t.Errorf("IssueSamples = %v, want none", got.IssueSamples)
	}
}

func TestPreviewLoad_Unrecognized(t *testing.T) {
	if _, err := PreviewLoad(NewStore(), &Table{Header: []string{"x"}}); err == nil {
		t.Error("PreviewLoad() expected error")
	}
}

func TestService_Preview(t *testing.T) {
	svc := newTestService(t)
	sess := svc.CreateSession()

	tbl := &Table{Header: LongHeader(), Rows: [][]string{{"fruit", "apple", "like"}}}
	got, err := svc.Preview(sess.ID, tbl)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	want := PreviewSummary{Layout: "long", TotalRows: 1, Items: 1, Removed: 8}
	if diff := cmp.Diff(want, got.Summary); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
	if sess.Store.Len() != 9 {
		t.Errorf("Preview changed the session store: Len = %d", sess.Store.Len())
	}
}
