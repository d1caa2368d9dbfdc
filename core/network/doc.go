// Package network builds the activity dependency graph.
//
// Nodes are addressed by the stable integer index the activity has in its
// model.Registry; identifiers are only kept in the registry side table. A
// Network is validated on construction (every predecessor exists, no cycle)
// and never changes afterwards, so it can be shared read-only between
// concurrent analyses.
package network
