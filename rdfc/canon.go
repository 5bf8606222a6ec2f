package rdfc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	canonicalPrefix = "c14n"
	temporaryPrefix = "b"
)

// canonicalLabelPattern matches identifiers of the form the canonical issuer
// allocates. Such identifiers are legal in input: issuance and relabeling are
// keyed on original identifiers, so they cannot alias an issued label. The
// pattern guards Relabel against partial maps that would leak one through.
var canonicalLabelPattern = regexp.MustCompile(`^c14n[0-9]+$`)

// canonicalizationState carries the per-invocation state: the blank node to
// quads map, the canonical issuer and the n-degree call budget. Nothing
// escapes the invocation.
type canonicalizationState struct {
	quadsByBlankNode map[string][]Quad
	canonicalIssuer  *identifierIssuer
	hashAlgorithm    HashAlgorithm
	callCounter      int
	callLimit        int
	log              *zap.Logger
}

func newCanonicalizationState(opts Options) *canonicalizationState {
	return &canonicalizationState{
		quadsByBlankNode: make(map[string][]Quad),
		canonicalIssuer:  newIdentifierIssuer(canonicalPrefix),
		hashAlgorithm:    opts.HashAlgorithm,
		callLimit:        opts.HNDQCallLimit,
		log:              opts.Logger,
	}
}

// canonicalizeCore runs the canonicalization algorithm and returns the
// canonical issuer holding the issued identifiers map.
func canonicalizeCore(dataset Dataset, opts Options) (*identifierIssuer, error) {
	if _, err := opts.HashAlgorithm.newHash(); err != nil {
		return nil, err
	}
	state := newCanonicalizationState(opts)

	// Step 1: blank node to quads map.
	state.log.Debug("canonicalize: building blank node to quads map",
		zap.Int("quads", len(dataset)))
	for _, quad := range dataset {
		for _, id := range quad.blankNodeIDs() {
			state.quadsByBlankNode[id] = append(state.quadsByBlankNode[id], quad)
		}
	}

	// Step 2: first-degree hash per blank node.
	state.log.Debug("canonicalize: hashing first degree quads",
		zap.Int("blankNodes", len(state.quadsByBlankNode)))
	hashToBlankNodes := make(map[string][]string, len(state.quadsByBlankNode))
	for _, id := range sortedKeys(state.quadsByBlankNode) {
		hash, err := state.hashFirstDegreeQuads(id)
		if err != nil {
			return nil, err
		}
		hashToBlankNodes[hash] = append(hashToBlankNodes[hash], id)
	}

	// Step 3: canonical labels for unique hashes, ascending hash order.
	state.log.Debug("canonicalize: issuing unique hashes")
	hashes := sortedKeys(hashToBlankNodes)
	for _, hash := range hashes {
		bucket := hashToBlankNodes[hash]
		if len(bucket) != 1 {
			continue
		}
		label := state.canonicalIssuer.issue(bucket[0])
		state.log.Debug("canonicalize: issued canonical identifier",
			zap.String("blankNode", bucket[0]), zap.String("label", label))
	}

	// Step 4: n-degree hashing for collision buckets, ascending hash order.
	state.log.Debug("canonicalize: resolving shared hashes")
	for _, hash := range hashes {
		bucket := hashToBlankNodes[hash]
		if len(bucket) < 2 {
			continue
		}
		type hndqRecord struct {
			hash   string
			issuer *identifierIssuer
		}
		var records []hndqRecord
		sort.Strings(bucket)
		for _, id := range bucket {
			if _, ok := state.canonicalIssuer.issuedFor(id); ok {
				continue
			}
			temporary := newIdentifierIssuer(temporaryPrefix)
			temporary.issue(id)
			resultHash, resultIssuer, err := state.hashNDegreeQuads(id, temporary)
			if err != nil {
				return nil, err
			}
			records = append(records, hndqRecord{hash: resultHash, issuer: resultIssuer})
		}
		// Duplicate result hashes indicate an auto-isomorphism; all records
		// are processed and the first issuance to reach an identifier wins.
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].hash < records[j].hash
		})
		for _, record := range records {
			for _, id := range record.issuer.order {
				state.canonicalIssuer.issue(id)
			}
		}
	}

	state.log.Debug("canonicalize: done",
		zap.Int("issued", len(state.canonicalIssuer.order)),
		zap.Int("hndqCalls", state.callCounter))
	return state.canonicalIssuer, nil
}

// hashFirstDegreeQuads computes the fingerprint of a blank node from the
// quads it participates in, with the node itself serialized as _:a and every
// other blank node as _:z.
func (s *canonicalizationState) hashFirstDegreeQuads(id string) (string, error) {
	quads, ok := s.quadsByBlankNode[id]
	if !ok {
		return "", errors.Wrapf(ErrQuadsNotExist, "%q", id)
	}
	subst := func(other string) string {
		if other == id {
			return "a"
		}
		return "z"
	}
	lines := make([]string, len(quads))
	for i, quad := range quads {
		lines[i] = serializeQuad(quad, subst)
	}
	sort.Strings(lines)
	hash, err := hexDigest(s.hashAlgorithm, strings.Join(lines, ""))
	if err != nil {
		return "", err
	}
	s.log.Debug("hash first degree quads",
		zap.String("blankNode", id), zap.String("hash", hash))
	return hash, nil
}

// hashRelatedBlankNode fingerprints the link from one blank node to another:
// the position tag, the predicate (omitted for graph position) and either an
// already-issued label or the related node's first-degree hash.
func (s *canonicalizationState) hashRelatedBlankNode(related string, quad Quad, issuer *identifierIssuer, position byte) (string, error) {
	var input strings.Builder
	input.WriteByte(position)
	if position != 'g' {
		input.WriteByte('<')
		input.WriteString(quad.P.Value)
		input.WriteByte('>')
	}
	if label, ok := s.canonicalIssuer.issuedFor(related); ok {
		input.WriteString("_:" + label)
	} else if label, ok := issuer.issuedFor(related); ok {
		input.WriteString("_:" + label)
	} else {
		hash, err := s.hashFirstDegreeQuads(related)
		if err != nil {
			return "", err
		}
		input.WriteString(hash)
	}
	return hexDigest(s.hashAlgorithm, input.String())
}

// hashNDegreeQuads resolves blank nodes whose first-degree hashes collide by
// searching over permutations of their related blank nodes. The returned
// issuer extends the given temporary issuer with labels for every reachable
// blank node in deterministic order; the given issuer itself is not mutated.
func (s *canonicalizationState) hashNDegreeQuads(id string, issuer *identifierIssuer) (string, *identifierIssuer, error) {
	s.log.Debug("hash n-degree quads: enter", zap.String("blankNode", id))

	relatedByHash := make(map[string][]string)
	addRelated := func(related string, quad Quad, position byte) error {
		hash, err := s.hashRelatedBlankNode(related, quad, issuer, position)
		if err != nil {
			return err
		}
		relatedByHash[hash] = append(relatedByHash[hash], related)
		return nil
	}
	for _, quad := range s.quadsByBlankNode[id] {
		if bnode, ok := quad.S.(BlankNode); ok && bnode.ID != id {
			if err := addRelated(bnode.ID, quad, 's'); err != nil {
				return "", nil, err
			}
		}
		if bnode, ok := quad.O.(BlankNode); ok && bnode.ID != id {
			if err := addRelated(bnode.ID, quad, 'o'); err != nil {
				return "", nil, err
			}
		}
		if bnode, ok := quad.G.(BlankNode); ok && bnode.ID != id {
			if err := addRelated(bnode.ID, quad, 'g'); err != nil {
				return "", nil, err
			}
		}
	}

	var dataToHash strings.Builder
	for _, relatedHash := range sortedKeys(relatedByHash) {
		dataToHash.WriteString(relatedHash)

		bucket := relatedByHash[relatedHash]
		sort.Strings(bucket)
		chosenPath := ""
		var chosenIssuer *identifierIssuer

		perm := newPermuter(bucket)
		for perm.next() {
			s.callCounter++
			if s.callLimit > 0 && s.callCounter > s.callLimit {
				return "", nil, errors.Wrapf(ErrHNDQCallLimitExceeded, "limit %d", s.callLimit)
			}

			issuerCopy := issuer.clone()
			path := ""
			var recursionList []string
			skip := false

			for _, related := range perm.current() {
				if label, ok := s.canonicalIssuer.issuedFor(related); ok {
					path += "_:" + label
				} else {
					if _, ok := issuerCopy.issuedFor(related); !ok {
						recursionList = append(recursionList, related)
					}
					path += "_:" + issuerCopy.issue(related)
				}
				if chosenPath != "" && len(path) >= len(chosenPath) && path > chosenPath {
					skip = true
					break
				}
			}
			if skip {
				continue
			}

			for _, related := range recursionList {
				resultHash, resultIssuer, err := s.hashNDegreeQuads(related, issuerCopy)
				if err != nil {
					return "", nil, err
				}
				path += "_:" + issuerCopy.issue(related)
				path += "<" + resultHash + ">"
				issuerCopy = resultIssuer
				if chosenPath != "" && len(path) >= len(chosenPath) && path > chosenPath {
					skip = true
					break
				}
			}
			if skip {
				continue
			}

			if chosenPath == "" || path < chosenPath {
				chosenPath = path
				chosenIssuer = issuerCopy
			}
		}

		dataToHash.WriteString(chosenPath)
		issuer = chosenIssuer
	}

	hash, err := hexDigest(s.hashAlgorithm, dataToHash.String())
	if err != nil {
		return "", nil, err
	}
	s.log.Debug("hash n-degree quads: exit",
		zap.String("blankNode", id), zap.String("hash", hash))
	return hash, issuer, nil
}

// permuter enumerates permutations of values lazily, in lexicographic order
// of the value-sorted input. Positions stay distinct, so duplicate values
// contribute their full permutation count to the call budget.
type permuter struct {
	values  []string
	indices []int
	first   bool
	done    bool
}

func newPermuter(values []string) *permuter {
	indices := make([]int, len(values))
	for i := range indices {
		indices[i] = i
	}
	return &permuter{values: values, indices: indices, first: true}
}

func (p *permuter) next() bool {
	if p.done {
		return false
	}
	if p.first {
		p.first = false
		return len(p.values) > 0
	}
	idx := p.indices
	i := len(idx) - 2
	for i >= 0 && idx[i] >= idx[i+1] {
		i--
	}
	if i < 0 {
		p.done = true
		return false
	}
	j := len(idx) - 1
	for idx[j] <= idx[i] {
		j--
	}
	idx[i], idx[j] = idx[j], idx[i]
	for lo, hi := i+1, len(idx)-1; lo < hi; lo, hi = lo+1, hi-1 {
		idx[lo], idx[hi] = idx[hi], idx[lo]
	}
	return true
}

func (p *permuter) current() []string {
	ordered := make([]string, len(p.indices))
	for i, idx := range p.indices {
		ordered[i] = p.values[idx]
	}
	return ordered
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
