package core

import (
	"time"
)

// PreviewSummary contains the counts for a load preview.
type PreviewSummary struct {
	Layout     string `json:"layout"`
	TotalRows  int    `json:"totalRows"`
	Items      int    `json:"items"`
	Added      int    `json:"added"`
	Changed    int    `json:"changed"`
	Removed    int    `json:"removed"`
	Defaulted  int    `json:"defaulted"`
	Skipped    int    `json:"skipped"`
	Duplicates int    `json:"duplicates"`
}

// ItemPreview is one item that a load would add or remove.
type ItemPreview struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Rating   Rating `json:"rating"`
}

// RatingDiff is an item whose rating a load would change.
type RatingDiff struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Current  Rating `json:"current"`
	Incoming Rating `json:"incoming"`
}

// CellIssue describes a cell the reconciler reads differently from what
// the file says, such as an unknown rating or a rating with no item.
type CellIssue struct {
	LineNumber int    `json:"lineNumber"`
	Category   string `json:"category"`
	Item       string `json:"item,omitempty"`
	Value      string `json:"value,omitempty"`
	Problem    string `json:"problem"`
}

// PreviewResponse is the result of a dry-run load.
type PreviewResponse struct {
	Summary          PreviewSummary `json:"summary"`
	AddedSamples     []ItemPreview  `json:"addedSamples"`
	RemovedSamples   []ItemPreview  `json:"removedSamples"`
	RatingDiffs      []RatingDiff   `json:"ratingDiffs"`
	IssueSamples     []CellIssue    `json:"issueSamples"`
	ProcessingTimeMs int64          `json:"processingTimeMs"`
}

// Sample limits
const (
	maxItemSamples  = 10
	maxRatingDiffs  = 10
	maxIssueSamples = 20
)

// Problems reported in CellIssue.
const (
	ProblemUnknownRating = "unknown rating, read as review"
	ProblemNoItem        = "rating without an item, ignored"
	ProblemDuplicate     = "item repeated, later row wins"
)

// PreviewLoad reconciles t without touching current and reports how the
// result differs from it. t itself is left unmodified.
func PreviewLoad(current *Store, t *Table) (*PreviewResponse, error) {
	startTime := time.Now()

	incoming, err := Reconcile(t.clone())
	if err != nil {
		return nil, err
	}

	resp := &PreviewResponse{
		Summary: PreviewSummary{
			Layout:    "wide",
			TotalRows: len(t.Rows),
			Items:     incoming.Len(),
		},
	}
	if IsLongTable(t) {
		resp.Summary.Layout = "long"
	}

	scanCells(t, func(line int, category, item, rating string) {
		var problem string
		switch {
		case item == "" && rating != "":
			resp.Summary.Skipped++
			problem = ProblemNoItem
		case item == "":
			return
		case rating == "":
			resp.Summary.Defaulted++
		default:
			if _, err := ParseRating(rating); err != nil {
				resp.Summary.Defaulted++
				problem = ProblemUnknownRating
			}
		}
		if problem != "" && len(resp.IssueSamples) < maxIssueSamples {
			resp.IssueSamples = append(resp.IssueSamples, CellIssue{
				LineNumber: line,
				Category:   category,
				Item:       item,
				Value:      rating,
				Problem:    problem,
			})
		}
	}, func(line int, category, item string) {
		resp.Summary.Duplicates++
		if len(resp.IssueSamples) < maxIssueSamples {
			resp.IssueSamples = append(resp.IssueSamples, CellIssue{
				LineNumber: line,
				Category:   category,
				Item:       item,
				Problem:    ProblemDuplicate,
			})
		}
	})

	for _, cat := range incoming.Categories() {
		for _, e := range incoming.Items(cat) {
			was, ok := current.Rating(cat, e.Item)
			switch {
			case !ok:
				resp.Summary.Added++
				if len(resp.AddedSamples) < maxItemSamples {
					resp.AddedSamples = append(resp.AddedSamples, ItemPreview{Category: cat, Item: e.Item, Rating: e.Rating})
				}
			case was != e.Rating:
				resp.Summary.Changed++
				if len(resp.RatingDiffs) < maxRatingDiffs {
					resp.RatingDiffs = append(resp.RatingDiffs, RatingDiff{Category: cat, Item: e.Item, Current: was, Incoming: e.Rating})
				}
			}
		}
	}

	for _, cat := range current.Categories() {
		for _, e := range current.Items(cat) {
			if _, ok := incoming.Rating(cat, e.Item); ok {
				continue
			}
			resp.Summary.Removed++
			if len(resp.RemovedSamples) < maxItemSamples {
				resp.RemovedSamples = append(resp.RemovedSamples, ItemPreview{Category: cat, Item: e.Item, Rating: e.Rating})
			}
		}
	}

	resp.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	return resp, nil
}

// scanCells walks the (category, item, rating) triples of t the way the
// reconcilers read them. Line numbers are 1-indexed file lines, counting
// the header. dup is called for an item seen earlier in the same category.
func scanCells(t *Table, cell func(line int, category, item, rating string), dup func(line int, category, item string)) {
	seen := make(map[[2]string]bool)
	visit := func(row int, category, item, rating string) {
		line := row + 2
		cell(line, category, item, rating)
		if item == "" {
			return
		}
		key := [2]string{NormalizeName(category), NormalizeName(item)}
		if seen[key] {
			dup(line, category, item)
		}
		seen[key] = true
	}

	if IsLongTable(t) {
		catCol, itemCol, ratingCol := t.Column(ColumnFoodType), t.Column(ColumnFood), t.Column(ColumnRating)
		for row := range t.Rows {
			cat := t.Cell(row, catCol)
			if cat == "" {
				continue
			}
			visit(row, cat, t.Cell(row, itemCol), t.Cell(row, ratingCol))
		}
		return
	}

	for row := range t.Rows {
		for _, c := range fixedCategories {
			itemCol := t.Column(c)
			if itemCol < 0 {
				continue
			}
			visit(row, c, t.Cell(row, itemCol), t.Cell(row, t.Column(RatingColumn(c))))
		}
	}
}

// clone returns a deep copy of t.
func (t *Table) clone() *Table {
	c := &Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = append([]string(nil), row...)
	}
	return c
}

// Preview runs PreviewLoad against the session's store.
func (s *Service) Preview(id string, t *Table) (*PreviewResponse, error) {
	var resp *PreviewResponse
	err := s.WithSession(id, func(sess *Session) error {
		var err error
		resp, err = PreviewLoad(sess.Store, t)
		return err
	})
	return resp, err
}
