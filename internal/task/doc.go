// Package task runs independent units of work on a bounded queue drained by
// a fixed pool of workers. Simulation batches use it to integrate several
// configurations in parallel without blocking on each other.
package task
