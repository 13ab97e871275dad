package core

import (
	"fmt"
	"strings"
)

// Rating is a sentiment label attached to an item.
type Rating string

const (
	RatingLove        Rating = "love"
	RatingLike        Rating = "like"
	RatingIndifferent Rating = "indifferent"
	RatingDislike     Rating = "dislike"

	// RatingReview marks an item that needs the user's attention, either
	// because it was just added or because an imported file gave no rating.
	RatingReview Rating = "review"
)

// DefaultRating is assigned wherever a rating is missing.
const DefaultRating = RatingReview

// ratingOrder is the display order of the rating set.
var ratingOrder = []Rating{
	RatingLove,
	RatingLike,
	RatingIndifferent,
	RatingDislike,
	RatingReview,
}

// Ratings returns the rating labels in display order.
func Ratings() []Rating {
	out := make([]Rating, len(ratingOrder))
	copy(out, ratingOrder)
	return out
}

// Index returns the position of r in the display order, or -1.
func (r Rating) Index() int {
	for i, v := range ratingOrder {
		if v == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is one of the known labels.
func (r Rating) Valid() bool {
	return r.Index() >= 0
}

func (r Rating) String() string {
	return string(r)
}

// ParseRating converts a label to a Rating, ignoring case and surrounding
// whitespace. Files written by earlier versions used "Review" for defaulted
// cells, which parses as RatingReview.
func ParseRating(s string) (Rating, error) {
	r := Rating(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return r, nil
}

// ratingOrDefault parses an imported cell. Empty and unknown labels both
// become DefaultRating.
func ratingOrDefault(s string) Rating {
	r, err := ParseRating(s)
	if err != nil {
		return DefaultRating
	}
	return r
}
