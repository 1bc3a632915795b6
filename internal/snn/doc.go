// Package snn implements the network-graph compiler and stateful execution
// runtime for spiking architectures.
//
// A network is described declaratively as a nested ListGen: the outer
// dimension holds parallel branches whose outputs are summed, the inner
// dimension is sequential composition, and an element may itself be a nested
// ListGen, expanded recursively into a sub-graph. Compile resolves such a
// tree into an executable Block, propagating channel counts and recording
// which positions carry hidden state across time steps.
//
// Block.Forward executes one time step: it threads a State container shaped
// exactly like the block through every branch and nesting level, and returns
// a fresh container for the next step. Callers drive temporal sequences by
// feeding each returned State into the following call; passing nil starts a
// new sequence.
package snn
