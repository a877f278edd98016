// Package auth manages the search API session: a JWT access/refresh pair
// obtained by logging in, persisted in an injected TokenStore, and refreshed
// when the access token expires.
package auth
