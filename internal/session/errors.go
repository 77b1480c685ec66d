package session

import "errors"

// Client-side validation failures. These abort the operation before any
// network round trip, mirroring the checks the form layer used to do.

// ErrFieldsRequired is returned when username or password is empty.
var ErrFieldsRequired = errors.New("username and password are required")

// ErrPasswordMismatch is returned when registration's confirmation field does
// not match the password.
var ErrPasswordMismatch = errors.New("passwords do not match")

// ErrMissingOAuthToken is returned by CompleteOAuthRedirect when the callback
// arrived without its token query parameter. The flow cannot proceed at all,
// which makes this fatal for the redirect, unlike an ordinary failed login.
var ErrMissingOAuthToken = errors.New("oauth redirect carried no token")
