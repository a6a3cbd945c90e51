// Package mocks provides testify/mock implementations of the store, auth and
// service interfaces shared by tests across packages.
//
// Usage:
//
//	history := new(mocks.SimulationStore)
//	history.On("ListByOwner", mock.Anything, ownerID).Return(results, nil)
//	defer history.AssertExpectations(t)
package mocks
