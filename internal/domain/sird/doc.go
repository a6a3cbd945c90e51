// Package sird implements a deterministic SIRD (Susceptible, Infected,
// Recovered, Deceased) compartmental epidemic model.
//
// The package is pure: it validates user supplied parameters, integrates the
// model with a fixed-step forward Euler scheme, tracks the infection peak and
// packages the outcome into an immutable Result. It has no knowledge of
// persistence or transport; callers own both.
package sird
