package core

// errors.go defines the structural pipeline errors and the mapping from
// technical errors to user-facing messages with support codes.
//
// Two classes of problem exist:
//   - Recoverable data-quality issues: carried per record as reasons in
//     the reports. The batch still completes.
//   - Structural issues: duplicate identifiers, empty datasets, missing
//     required columns. These abort the batch with one of the errors
//     below and the report is never produced.
//
// Error codes are for support reference: users quote the code, support
// staff look it up here.
//
//	REC001 - Duplicate identifier within a table (batch aborted)
//	REC002 - Reconcile requested before both tables were loaded
//	VAL004 - Missing required columns in the CSV header
//	FILE001 - File too large
//	FILE004 - No file provided
//	FILE005 - Empty file / no data rows
//	RATE001 - Rate limited
//	ERR000 - Fallback for unrecognized errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDatasetMissing is returned by Reconcile and the download operations
// when the required table has not been loaded yet.
var ErrDatasetMissing = errors.New("dataset not loaded: upload both customers and orders first")

// ErrEmptyTable is returned when an uploaded table contains no data rows.
var ErrEmptyTable = errors.New("empty table: file has no data rows")

// DuplicateKeyError aborts a batch when an identifier appears more than
// once within a table. The error names the offending key and where both
// occurrences were seen.
type DuplicateKeyError struct {
	Table     string // "customers" or "orders"
	Key       string // the duplicated identifier
	FirstLine int    // line of the first occurrence
	Line      int    // line of the duplicate
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s identifier %q (line %d, first seen line %d)",
		e.Table, e.Key, e.Line, e.FirstLine)
}

// MissingColumnsError is returned when required columns are absent from
// the CSV header.
type MissingColumnsError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Table, strings.Join(e.Columns, ", "))
}

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Matching uses strings.Contains and the first match wins, so
// more specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "duplicate",
		msg: UserMessage{
			Message: "A duplicate identifier was found in the uploaded table",
			Action:  "Remove or correct the duplicated row and upload again",
			Code:    "REC001",
		},
	},
	{
		pattern: "dataset not loaded",
		msg: UserMessage{
			Message: "Both customer and order tables must be uploaded first",
			Action:  "Upload customers and orders, then request the report",
			Code:    "REC002",
		},
	},
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "Required columns are missing from the CSV header",
			Action:  "Check that all required columns are present in your file",
			Code:    "VAL004",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty table",
		msg: UserMessage{
			Message: "The uploaded file has no data rows",
			Action:  "Please upload a CSV file with data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "too many rows",
		msg: UserMessage{
			Message: "The uploaded file has too many rows",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultUserMessage is the fallback when no pattern matches.
var defaultUserMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return defaultUserMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(errStr, p.pattern) {
			return p.msg
		}
	}

	return defaultUserMessage
}
