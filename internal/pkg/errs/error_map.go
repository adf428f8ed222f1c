/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrInvalidJSONFormat: {Code: ErrInvalidJSONFormat, Message: "Unsupported message format."},
	ErrUnsupportedEvent:  {Code: ErrUnsupportedEvent, Message: "Unsupported event type."},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Session and Roster Business Logic Errors
	ErrMissingField:      {Code: ErrMissingField, Message: "Username and room are required!"},
	ErrNameTaken:         {Code: ErrNameTaken, Message: "Username is in use!"},
	ErrAlreadyJoined:     {Code: ErrAlreadyJoined, Message: "You already joined a room."},
	ErrNotJoined:         {Code: ErrNotJoined, Message: "Join a room before sending messages."},
	ErrProfanityRejected: {Code: ErrProfanityRejected, Message: "Profanity is not allowed!"},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
