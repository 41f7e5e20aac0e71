// Package draft implements copy-on-write producers over value trees.
//
// Produce hands a recipe a Draft of its base. The recipe reads and writes
// the draft as if it were mutable; the engine stages the writes, shares
// every untouched subtree with the base and returns a new, frozen tree.
// A recipe that changes nothing gets its base back by reference.
//
// Two strategies realize the same contract. Reflective intercepts every
// read and write. Structural keeps a live copy per draft and runs a
// change-detection pass for keys added or removed outside of accessors.
package draft
