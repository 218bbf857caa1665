// Package match implements the track→video matching engine.
//
// The pipeline turns a catalog (artist, title, duration) tuple into a
// single chosen video identifier:
//
//  1. [CleanTag] strips promotional qualifiers from noisy catalog metadata
//  2. [ParseISODuration] converts ISO-8601 durations to seconds
//  3. [Score] / [SelectBest] rank search candidates against the target duration
//  4. [Resolver] orchestrates the primary query and its single fallback
//  5. [URLSet] folds resolved URLs into an ordered, deduplicated list
//
// Everything here is pure except [Resolver], which drives an injected
// [SearchClient]; no state survives across resolution attempts.
package match
