// Package rdfc implements the RDF Dataset Canonicalization algorithm
// (RDFC-1.0).
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Given a dataset whose blank nodes carry arbitrary local identifiers, the
// package produces a deterministic, implementation-independent assignment of
// canonical labels (c14n0, c14n1, ...) such that any two isomorphic datasets
// yield identical labels and identical serialized output.
//
//   - Canonicalize returns the canonical N-Quads serialization.
//   - CanonicalizeGraph treats a graph as the default graph of a singleton
//     dataset and returns canonical N-Triples.
//   - Issue returns only the issued-identifiers map.
//   - Relabel and Serialize expose the final two steps individually.
//
// Example:
//
//	dataset, err := rdfc.ParseNQuads(input)
//	if err != nil {
//	    // handle error
//	}
//	canonical, err := rdfc.Canonicalize(dataset)
//	if err != nil {
//	    // handle error
//	}
//
// Options select the digest (SHA-256 by default, SHA-384 supported), cap the
// work spent on pathological inputs, and install an observer:
//
//	canonical, err := rdfc.Canonicalize(dataset,
//	    rdfc.WithHashAlgorithm(rdfc.SHA384),
//	    rdfc.WithHNDQCallLimit(10000),
//	    rdfc.WithLogger(logger),
//	)
//
// Canonicalization of datasets with large blank node automorphism groups is
// superpolynomial. The call limit (default 4000 permutation iterations)
// turns such poison inputs into a bounded ErrHNDQCallLimitExceeded failure
// rather than an indefinite hang; raise it per call if a legitimate input
// trips it.
//
// The core is synchronous, performs no I/O, and keeps all mutable state
// confined to one invocation; concurrent calls over distinct inputs are safe.
// JSON-LD input is supported through DatasetFromJSONLD, which deserializes
// documents via github.com/piprate/json-gold.
package rdfc
