// Package merge implements three-way structural merge over a generic
// syntax-tree artifact model: a matcher that links corresponding nodes
// across revisions, ordered and unordered merge engines that consume a
// matching and emit operations, and an operations applier that carries
// those operations into a target tree.
//
// The concrete syntax tree is supplied by any type implementing TreeNode;
// this package never depends on a specific grammar or parser.
package merge
