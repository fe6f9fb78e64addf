// Package summary rebuilds the per-tick partition trees of action ensembles
// from the flat event stream of a simulator log.
//
// The log is a pre-order walk of each tree. A Builder replays it with a stack
// of open nodes: sampling counts announced on a node act as a one-event
// lookahead that decides whether the next target size opens the sampled or
// not-sampled child, or belongs to the same level.
//
// The package is domain-only. It never imports logline, pipeline, output,
// writers, cli or app; callers translate parsed lines into Builder calls.
package summary
