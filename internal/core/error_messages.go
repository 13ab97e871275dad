package core

// error_messages.go maps technical errors to user-facing messages.
//
// Each message carries a code the user can quote when asking for help:
//
//	FILE001 - File too large           Patterns: "file too large", "request body too large"
//	FILE002 - Invalid CSV              Patterns: "invalid csv"
//	FILE004 - No file                  Patterns: "no file provided"
//	FILE005 - Empty file               Patterns: "empty file"
//	FILE006 - File exists              Patterns: "already exists"
//	FILE007 - Path not found           Patterns: "path not found", "not found" (file)
//
//	VAL001  - Missing category         Patterns: "missing category"
//	VAL002  - Unrecognised table       Patterns: "unrecognized table"
//	VAL003  - Invalid rating           Patterns: "invalid rating"
//	VAL004  - Unknown item             Patterns: "unknown item"
//	VAL005  - Unknown category         Patterns: "unknown category"
//	VAL006  - Unknown layout           Patterns: "unknown layout"
//	VAL007  - Malformed request        Patterns: "invalid request"
//
//	SES001  - Session not found        Patterns: "session not found"
//	RATE001 - Rate limited             Patterns: "rate limit"
//	RATE002 - Uploads busy             Patterns: "too many concurrent uploads"
//	ERR000  - Anything else
//
// Errors wrapping one of the core sentinels are classified with errors.Is,
// so text a user typed (a file name, a category) never picks the code.
// Patterns are the fallback for errors from outside the package and are
// matched case-insensitively with strings.Contains; the first match wins,
// so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	target  error // sentinel matched with errors.Is; nil for pattern-only entries
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		target:  ErrFileTooLarge,
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Upload a smaller CSV file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Upload a smaller CSV file",
			Code:    "FILE001",
		},
	},
	{
		target:  ErrInvalidCSV,
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with a header row",
			Code:    "FILE002",
		},
	},
	{
		target:  ErrNoFile,
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to load",
			Code:    "FILE004",
		},
	},
	{
		target:  ErrEmptyFile,
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with a header row",
			Code:    "FILE005",
		},
	},
	{
		target:  ErrFileExists,
		pattern: "already exists",
		msg: UserMessage{
			Message: "The output file already exists",
			Action:  "Move or rename the existing file, then save again",
			Code:    "FILE006",
		},
	},
	{
		target:  ErrPathNotFound,
		pattern: "path not found",
		msg: UserMessage{
			Message: "The output directory does not exist",
			Action:  "Create the output directory or change OUTPUT_DIR",
			Code:    "FILE007",
		},
	},

	// Validation errors
	{
		target:  ErrMissingCategory,
		pattern: "missing category",
		msg: UserMessage{
			Message: "A required food type is missing",
			Action:  "The wide format needs fruit, vegetable and meat; use the long format instead",
			Code:    "VAL001",
		},
	},
	{
		target:  ErrUnrecognizedTable,
		pattern: "unrecognized table",
		msg: UserMessage{
			Message: "The file has no recognisable food type columns",
			Action:  "Use a file with fruit, vegetable or meat columns, or the food_type,food,rating layout",
			Code:    "VAL002",
		},
	},
	{
		target:  ErrInvalidRating,
		pattern: "invalid rating",
		msg: UserMessage{
			Message: "Rating is not one of the allowed values",
			Action:  "Use love, like, indifferent, dislike or review",
			Code:    "VAL003",
		},
	},
	{
		target:  ErrUnknownItem,
		pattern: "unknown item",
		msg: UserMessage{
			Message: "That food is not in the list",
			Action:  "Add the food before rating it",
			Code:    "VAL004",
		},
	},
	{
		target:  ErrUnknownCategory,
		pattern: "unknown category",
		msg: UserMessage{
			Message: "That food type does not exist",
			Action:  "Select one of the listed food types",
			Code:    "VAL005",
		},
	},
	{
		target:  ErrUnknownLayout,
		pattern: "unknown layout",
		msg: UserMessage{
			Message: "Unknown file format",
			Action:  "Choose the long or wide format",
			Code:    "VAL006",
		},
	},
	{
		target:  ErrInvalidRequest,
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Check the request body and try again",
			Code:    "VAL007",
		},
	},

	// Session errors
	{
		target:  ErrSessionNotFound,
		pattern: "session not found",
		msg: UserMessage{
			Message: "Session not found",
			Action:  "The session may have expired. Please start a new one",
			Code:    "SES001",
		},
	},

	// Rate limiting
	{
		target:  ErrRateLimited,
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		target:  ErrTooManyLoads,
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "The server is busy processing other uploads",
			Action:  "Try the upload again in a few seconds",
			Code:    "RATE002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, ep := range errorPatterns {
		if ep.target != nil && errors.Is(err, ep.target) {
			return ep.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
