package rdfc

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Canonicalize assigns deterministic identifiers to the blank nodes of the
// input dataset and returns the canonical N-Quads serialization: lines in
// ascending byte order, each terminated by '\n'. Two isomorphic datasets
// produce identical output.
func Canonicalize(dataset Dataset, opts ...Option) (string, error) {
	issued, err := Issue(dataset, opts...)
	if err != nil {
		return "", err
	}
	relabeled, err := Relabel(dataset, issued)
	if err != nil {
		return "", err
	}
	return Serialize(relabeled), nil
}

// CanonicalizeGraph treats the triples as the default graph of a singleton
// dataset and returns canonical N-Triples.
func CanonicalizeGraph(graph []Triple, opts ...Option) (string, error) {
	return Canonicalize(TriplesToDataset(graph), opts...)
}

// Issue runs the canonicalization algorithm and returns only the
// issued-identifiers map, without relabeling or serializing.
func Issue(dataset Dataset, opts ...Option) (*IssuedIdentifiers, error) {
	options := applyOptions(opts)
	issuer, err := canonicalizeCore(dataset, options)
	if err != nil {
		return nil, err
	}
	return issuer.toIssued(), nil
}

// Relabel rewrites every blank node in the dataset according to the issued
// identifiers map. A blank node absent from the map is an error: well-formed
// canonicalization issues a label for every blank node in the input.
func Relabel(dataset Dataset, issued *IssuedIdentifiers) (Dataset, error) {
	relabeled := make(Dataset, len(dataset))
	for i, quad := range dataset {
		subject, err := relabelTerm(quad.S, issued)
		if err != nil {
			return nil, err
		}
		object, err := relabelTerm(quad.O, issued)
		if err != nil {
			return nil, err
		}
		graph, err := relabelTerm(quad.G, issued)
		if err != nil {
			return nil, err
		}
		relabeled[i] = Quad{S: subject, P: quad.P, O: object, G: graph}
	}
	return relabeled, nil
}

func relabelTerm(term Term, issued *IssuedIdentifiers) (Term, error) {
	bnode, ok := term.(BlankNode)
	if !ok {
		return term, nil
	}
	label, ok := issued.Get(bnode.ID)
	if !ok {
		// Passing an unmapped identifier of the canonical label form through
		// would alias a label the issuer allocates.
		if canonicalLabelPattern.MatchString(bnode.ID) {
			return nil, errors.Wrapf(ErrBlankNodeIDCollision, "%q", bnode.ID)
		}
		return nil, errors.Wrapf(ErrNoCanonicalIdentifier, "%q", bnode.ID)
	}
	return BlankNode{ID: label}, nil
}

// Serialize emits an already-labeled dataset in canonical N-Quads form:
// one line per quad, sorted ascending as byte strings, each ending in '\n'.
func Serialize(dataset Dataset) string {
	lines := make([]string, len(dataset))
	for i, quad := range dataset {
		lines[i] = serializeQuad(quad, identitySubst)
	}
	sort.Strings(lines)
	return strings.Join(lines, "")
}
