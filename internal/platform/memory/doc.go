// Package memory provides in-process implementations of the store interfaces.
// State lives for the lifetime of the process; it backs the default server
// configuration and tests.
package memory
