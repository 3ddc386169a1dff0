// Package repository implements data access over MySQL. Sentinel
// values here let handlers distinguish failure scenarios; absent rows
// are reported as sql.ErrNoRows, which callers translate into 404
// responses.
package repository

import "errors"

// ErrEmailExists is returned when registering a hoster with an email
// that is already taken. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
