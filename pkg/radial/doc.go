// Package radial computes collision-free placements for radial diagrams.
//
// Each identifier carries a numeric value. Values map linearly onto an
// angular sweep around a circle; identifiers sharing a value are splayed
// around that value's bearing as satellites, and distinct values that sit
// too close together are pushed to an outer "high orbit".
//
// # Pipeline
//
// [ComputePlacements] is the single entry point. It runs four steps:
//
//  1. Group: pairs are grouped by value ([group.GroupByValue]). Zero values
//     have no angular position and are left out (logged at debug level).
//  2. Promote: one cyclic pass over the ascending values decides which
//     values move to the high orbit ([collision.Promote]).
//  3. Splay promoted groups, in pass order, at the high orbit.
//  4. Splay the remaining groups at the low orbit in descending value
//     order, so small values are drawn last and stay on top.
//
// The call is a pure function of its arguments. It holds no shared state,
// so independent calls may run concurrently.
//
// # Errors
//
// Precondition violations (non-positive base radius, negative radius
// fields, a malformed angular range, a non-positive value maximum with
// non-zero data, duplicate identifiers, negative values) fail immediately
// with a coded [errors.Error] and no partial output. Empty or all-zero input
// is not an error and yields an empty slice.
//
// # Usage
//
//	placements, err := radial.ComputePlacements(pairs, 100,
//	    angular.DefaultRange(),
//	    radial.DefaultRadius(120),
//	    radial.DefaultCollision(),
//	    radial.WithLogger(logger))
//
// [errors.Error]: github.com/bdekoz/izzi/pkg/errors.Error
package radial
