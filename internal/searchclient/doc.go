// Package searchclient calls the article-search HTTP API.
//
// The client validates requests with the same rules as the API, attaches a
// bearer token from an auth.TokenSource, retries once after a refresh when
// the token is rejected, and throttles calls with a token bucket that also
// honours Retry-After on 429 responses.
package searchclient
