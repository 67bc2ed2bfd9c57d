// Package matrix derives the Eisenhower quadrants and completion
// statistics from a task collection.
//
// Everything here is a pure function of its inputs except View, which
// memoizes the category filter and completion percentage per store and
// selection version. Quadrant membership is never cached: urgency depends
// on the current time, so buckets are rebuilt on every read.
package matrix
