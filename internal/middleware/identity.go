package middleware

// identity.go holds the identity lookup shared by the rate limiter's
// key builder. Hoster requests carry a JWT and resolve to the hoster
// id; client requests are identified by connection token in the path,
// which the limiter intentionally ignores so token guessing is rated
// per IP rather than per guessed token.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// callerID returns a stable identifier for the requester: the hoster
// id when authenticated, "anon" otherwise.
func callerID(c echo.Context) string {
	if id := HosterID(c); id != 0 {
		return "h" + strconv.FormatUint(id, 10)
	}
	return "anon"
}
