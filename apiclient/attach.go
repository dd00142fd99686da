package apiclient

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// RequestIDHeader carries a fresh uuid on every attempt, retries included.
const RequestIDHeader = "X-Request-ID"

// AttachCredentials sets "Authorization: Bearer <token>" on req. An empty
// token leaves req untouched.
func AttachCredentials(req *http.Request, token string) {
	if token == "" {
		return
	}
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
}

func stampRequestID(req *http.Request) string {
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	return id
}
