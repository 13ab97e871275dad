package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "file too large maps correctly",
			err:         errors.New("file too large: 2000000 bytes"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "wrapped invalid csv maps correctly",
			err:         fmt.Errorf("%w: record on line 3: wrong number of fields", ErrInvalidCSV),
			wantCode:    "FILE002",
			wantMessage: "File is not a valid CSV",
		},
		{
			name:        "existing output file maps correctly",
			err:         fmt.Errorf("write output/food_ratings.csv: %w", ErrFileExists),
			wantCode:    "FILE006",
			wantMessage: "The output file already exists",
		},
		{
			name:        "missing output directory maps correctly",
			err:         ErrPathNotFound,
			wantCode:    "FILE007",
			wantMessage: "The output directory does not exist",
		},
		{
			name:        "missing category maps correctly",
			err:         fmt.Errorf("encode wide: %w: meat", ErrMissingCategory),
			wantCode:    "VAL001",
			wantMessage: "A required food type is missing",
		},
		{
			name:        "invalid rating maps correctly",
			err:         fmt.Errorf("%w: %q", ErrInvalidRating, "adore"),
			wantCode:    "VAL003",
			wantMessage: "Rating is not one of the allowed values",
		},
		{
			name:        "unknown item maps before unknown category",
			err:         fmt.Errorf("%w: fruit/kiwi", ErrUnknownItem),
			wantCode:    "VAL004",
			wantMessage: "That food is not in the list",
		},
		{
			name:        "session not found maps correctly",
			err:         ErrSessionNotFound,
			wantCode:    "SES001",
			wantMessage: "Session not found",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "busy loads map correctly",
			err:         ErrTooManyLoads,
			wantCode:    "RATE002",
			wantMessage: "The server is busy processing other uploads",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("SESSION NOT FOUND"),
			wantCode:    "SES001",
			wantMessage: "Session not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrFileExists)

	expected := "The output file already exists (Code: FILE006). Move or rename the existing file, then save again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrEmptyFile,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapError_UserTextDoesNotPickCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		cmd      Command
		wantCode string
	}{
		{
			name: "file name containing another error phrase",
			cmd: Command{
				Kind:   CmdLoad,
				Source: "already exists.csv",
				Table:  &Table{Header: []string{"colour"}, Rows: [][]string{{"red"}}},
			},
			wantCode: "VAL002",
		},
		{
			name:     "category name containing another error phrase",
			cmd:      Command{Kind: CmdSelectCategory, Category: "invalid csv"},
			wantCode: "VAL005",
		},
		{
			name:     "item name containing another error phrase",
			cmd:      Command{Kind: CmdSetRating, Category: "fruit", Item: "session not found", Rating: RatingLike},
			wantCode: "VAL004",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Handle(ctx, svc.CreateSession(), tt.cmd)
			if err == nil {
				t.Fatal("Handle() error = nil, want an error")
			}
			if got := MapError(err).Code; got != tt.wantCode {
				t.Errorf("MapError(%q) code = %q, want %q", err, got, tt.wantCode)
			}
		})
	}
}

func TestMapError_SentinelBeatsPattern(t *testing.T) {
	err := fmt.Errorf("rate limit exceeded while reading: %w", ErrEmptyFile)
	if got := MapError(err).Code; got != "FILE005" {
		t.Errorf("MapError() code = %q, want FILE005", got)
	}
}
