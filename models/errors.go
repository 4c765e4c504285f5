package models

import "errors"

// Domain errors. The error text doubles as the response detail, so a few
// of these carry client-facing capitalization. The transport layer maps
// them to status codes in handlers.ErrorHandler.

// ErrInvalidCredentials is returned for a failed login. Unknown email and
// wrong password produce this same error so the endpoint cannot be used
// to enumerate accounts.
var ErrInvalidCredentials = errors.New("Incorrect username or password")

// ErrUnauthenticated covers every way a bearer token can fail to resolve
// to a live user: missing header, bad signature, expired token, or the
// subject no longer existing. The cases are deliberately indistinguishable.
var ErrUnauthenticated = errors.New("Could not validate credentials")

// ErrWrongPassword is returned when a password change supplies the wrong
// current password.
var ErrWrongPassword = errors.New("Invalid current password")

// ErrNotFound is returned for a resource that is absent or owned by
// someone else. The two cases are intentionally conflated so a non-owner
// learns nothing about other users' todos.
var ErrNotFound = errors.New("Todo not found")

// ErrForbidden is an explicit role denial. Unlike ownership mismatches,
// admin-only features communicate the denial openly.
var ErrForbidden = errors.New("You do not have permission to view all users")

// ErrEmailTaken is the registration conflict.
var ErrEmailTaken = errors.New("Email already registered")

// ErrEmailInUse is the profile-update conflict.
var ErrEmailInUse = errors.New("Email already in use")
