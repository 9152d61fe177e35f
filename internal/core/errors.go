package core

// errors.go maps technical errors to user-facing messages with a support
// code. Known sentinel errors are matched with errors.Is; anything else
// (typically driver errors from PostgreSQL) falls back to case-insensitive
// substring patterns.
//
// # Dataset errors (DS001-DS099)
//
//	DS001 - The dataset is empty or invalid (no header or no data rows)
//	DS002 - Dataset not found
//	DS003 - Unknown dataset source (not builtin, uploaded or sql)
//	DS004 - Image not found in the dataset
//
// # File errors (FILE001-FILE099)
//
//	FILE001 - File exceeds the size limit
//	FILE002 - File is not valid CSV
//	FILE003 - Unsupported format (only .csv and .zip)
//	FILE004 - No file was sent
//	FILE005 - ZIP archive without data.csv
//
// # Ingest errors (UPL001-UPL099)
//
//	UPL001 - Too many datasets loading at once
//	UPL002 - Request cancelled
//	UPL003 - Request timed out
//
// # Database errors (DB001-DB099)
//
//	DB001 - Connection refused
//	DB002 - Table does not exist
//	DB003 - Authentication failed
//	DB004 - Timeout
//
// # Other
//
//	REQ001  - Malformed request parameters or body
//	RATE001 - Too many requests
//	ERR000  - Anything else; check the logs for the technical error

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/JonMunkholm/explorer/internal/source"
)

var (
	ErrDatasetNotFound  = errors.New("dataset not found")
	ErrDuplicateDataset = errors.New("dataset already registered")
	ErrUnknownSource    = errors.New("unknown dataset source")
	ErrImageNotFound    = errors.New("image not found")
	ErrNoFile           = errors.New("no file provided")
	ErrBadRequest       = errors.New("malformed request")
)

// UserMessage is the user-facing side of an error.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages is checked in order with errors.Is.
var sentinelMessages = []sentinelMessage{
	{dataset.ErrEmptyDataset, UserMessage{
		Message: "The dataset is empty or invalid",
		Action:  "Upload a CSV with a header row and at least one data row",
		Code:    "DS001",
	}},
	{ErrDatasetNotFound, UserMessage{
		Message: "Dataset not found",
		Action:  "Pick a dataset from the list",
		Code:    "DS002",
	}},
	{ErrUnknownSource, UserMessage{
		Message: "Unknown dataset source",
		Action:  "Use builtin, uploaded or sql",
		Code:    "DS003",
	}},
	{ErrImageNotFound, UserMessage{
		Message: "Image not found",
		Action:  "Check that the image is included next to data.csv",
		Code:    "DS004",
	}},
	{source.ErrTooLarge, UserMessage{
		Message: "File exceeds the maximum allowed size",
		Action:  "Split the dataset or remove unused images",
		Code:    "FILE001",
	}},
	{source.ErrMalformedCSV, UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure the file is comma-separated with a header row",
		Code:    "FILE002",
	}},
	{source.ErrUnsupportedFormat, UserMessage{
		Message: "Unsupported format",
		Action:  "Upload a .csv file or a .zip containing data.csv",
		Code:    "FILE003",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Choose a .csv or .zip file to upload",
		Code:    "FILE004",
	}},
	{source.ErrNoDataCSV, UserMessage{
		Message: "Could not find 'data.csv' in the zip file",
		Action:  "Put the table in a file named data.csv inside the archive",
		Code:    "FILE005",
	}},
	{ErrTooManyIngests, UserMessage{
		Message: "The server is busy loading other datasets",
		Action:  "Please wait a moment and try again",
		Code:    "UPL001",
	}},
	{ErrBadRequest, UserMessage{
		Message: "The request was malformed",
		Action:  "Check the request parameters and body",
		Code:    "REQ001",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL002",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "UPL003",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is the fallback for errors without a sentinel. The first
// case-insensitive substring match wins.
var errorPatterns = []errorPattern{
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB001",
	}},
	{"does not exist", UserMessage{
		Message: "Table does not exist",
		Action:  "Check DATASET_SQL_TABLES",
		Code:    "DB002",
	}},
	{"authentication failed", UserMessage{
		Message: "Database authentication failed",
		Action:  "Check the database credentials",
		Code:    "DB003",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB004",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts err to a user-facing message. A nil error maps to the
// zero UserMessage; an unrecognised one to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
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

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than
// ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error (for logs) with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
