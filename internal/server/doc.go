// Package server serves a search form that forwards queries to the search
// API and renders the results with the shared converter.
//
// Routes:
//
//	GET  /         search form
//	POST /search   run a search and render the result below the form
//	GET  /healthz  liveness probe
//	GET  /metrics  Prometheus metrics, when enabled
//
// Every response carries an X-Request-ID header that also tags log lines.
package server
