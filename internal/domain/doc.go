// Package domain contains the business entities shared across the application
// and the sentinel errors used to classify invalid input. The simulation model
// itself lives in the sird subpackage.
package domain
