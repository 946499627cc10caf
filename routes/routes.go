// Package routes wires the HTTP API.
//
//   - api.go: /v1 routes, health and metrics
//   - web.go: / and /docs
//   - middleware.go: recovery and request logging
package routes
