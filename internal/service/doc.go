// Package service contains the application use cases. It orchestrates the
// simulation domain, the task runner and the stores in internal/store to
// fulfil requests from the API and the CLI.
//
// Services receive their dependencies through constructor injection and
// depend only on store interfaces, never on a concrete backend. Expected
// failures are reported as sentinel errors (or domain validation errors)
// that callers match with errors.Is/errors.As; unexpected ones are wrapped
// in a *ServiceError naming the failed operation.
package service
