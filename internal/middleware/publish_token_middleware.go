package middleware

import (
	"net/http"

	"obsidian-relay/pkg/hash"
	"obsidian-relay/pkg/response"
)

const PublishTokenHeader = "X-Publish-Token"

// PublishTokenMiddleware admits requests whose X-Publish-Token matches the
// configured secret. tokenHash, when set, is a bcrypt hash checked instead of
// the plain token. With neither configured every request is rejected.
func PublishTokenMiddleware(token, tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tokenMatches(token, tokenHash, r.Header.Get(PublishTokenHeader)) {
				response.Unauthorized(w, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenMatches(token, tokenHash, given string) bool {
	if given == "" {
		return false
	}
	if tokenHash != "" {
		return hash.Compare(tokenHash, given) == nil
	}
	if token == "" {
		return false
	}
	return hash.Equal(token, given)
}
