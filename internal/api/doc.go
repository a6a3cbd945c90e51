// Package api exposes simulations and accounts over HTTP. Handlers decode
// and validate JSON requests, call the services in internal/service and map
// their errors to status codes and safe messages, so no internal error text
// reaches clients.
package api
