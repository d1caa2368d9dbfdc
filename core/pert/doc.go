// Package pert turns three-point duration estimates into expected durations
// and variances, aggregates them along a path and answers completion
// probability questions under a normal approximation.
//
// Activities on a path are treated as statistically independent, so path
// variance is the plain sum of activity variances.
package pert
