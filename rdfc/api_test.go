package rdfc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func vocabIRI(local string) IRI {
	return IRI{Value: "http://example.org/vocab#" + local}
}

// threeCycle links e0 -> e1 -> e2 -> e0 with next/prev edges, all inside
// graph g (pass nil for the default graph).
func threeCycle(g Term) Dataset {
	next, prev := vocabIRI("next"), vocabIRI("prev")
	e0, e1, e2 := BlankNode{ID: "e0"}, BlankNode{ID: "e1"}, BlankNode{ID: "e2"}
	return NewDataset(
		Quad{S: e0, P: next, O: e1, G: g},
		Quad{S: e0, P: prev, O: e2, G: g},
		Quad{S: e1, P: next, O: e2, G: g},
		Quad{S: e1, P: prev, O: e0, G: g},
		Quad{S: e2, P: next, O: e0, G: g},
		Quad{S: e2, P: prev, O: e1, G: g},
	)
}

// controlChars is the lexical form exercising every short escape plus the
// vertical-tab and DEL forms.
const controlChars = "\b\t\n\v\f\r\"\\\u007f"

// escapedControlChars is the canonical serialization of controlChars.
var escapedControlChars = func() string {
	bs := string(byte(0x5C))
	return bs + "b" + bs + "t" + bs + "n" + bs + "u000B" + bs + "f" + bs + "r" +
		bs + `"` + bs + bs + bs + "u007F"
}()

func TestCanonicalizeUniqueHashes(t *testing.T) {
	got, err := Canonicalize(uniqueHashDataset())
	require.NoError(t, err)
	assert.Equal(t, "<http://example.com/#p> <http://example.com/#q> _:c14n0 .\n"+
		"<http://example.com/#p> <http://example.com/#r> _:c14n1 .\n"+
		"_:c14n0 <http://example.com/#s> <http://example.com/#u> .\n"+
		"_:c14n1 <http://example.com/#t> <http://example.com/#u> .\n", got)
}

func TestCanonicalizeSharedHashes(t *testing.T) {
	got, err := Canonicalize(sharedHashDataset())
	require.NoError(t, err)
	assert.Equal(t, "<http://example.com/#p> <http://example.com/#q> _:c14n2 .\n"+
		"<http://example.com/#p> <http://example.com/#q> _:c14n3 .\n"+
		"_:c14n0 <http://example.com/#r> _:c14n1 .\n"+
		"_:c14n2 <http://example.com/#p> _:c14n1 .\n"+
		"_:c14n3 <http://example.com/#p> _:c14n0 .\n", got)
}

func TestCanonicalizeDuplicatedPaths(t *testing.T) {
	p1, p2 := vocabIRI("p1"), vocabIRI("p2")
	dataset := NewDataset(
		Quad{S: BlankNode{ID: "e0"}, P: p1, O: BlankNode{ID: "e1"}},
		Quad{S: BlankNode{ID: "e1"}, P: p2, O: Literal{Lexical: "Foo"}},
		Quad{S: BlankNode{ID: "e2"}, P: p1, O: BlankNode{ID: "e3"}},
		Quad{S: BlankNode{ID: "e3"}, P: p2, O: Literal{Lexical: "Foo"}},
	)
	got, err := Canonicalize(dataset)
	require.NoError(t, err)
	assert.Equal(t, "_:c14n0 <http://example.org/vocab#p1> _:c14n1 .\n"+
		"_:c14n1 <http://example.org/vocab#p2> \"Foo\" .\n"+
		"_:c14n2 <http://example.org/vocab#p1> _:c14n3 .\n"+
		"_:c14n3 <http://example.org/vocab#p2> \"Foo\" .\n", got)
}

func TestIssueIsolatedBlankNodes(t *testing.T) {
	dataset := NewDataset(
		Quad{S: BlankNode{ID: "e0"}, P: IRI{Value: "http://example.com/#p1"}, O: BlankNode{ID: "e1"}},
		Quad{S: BlankNode{ID: "e1"}, P: IRI{Value: "http://example.com/#p2"}, O: Literal{Lexical: "Foo"}},
	)
	issued, err := Issue(dataset)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"e0": "c14n0", "e1": "c14n1"}, issued.Map())
	assert.Equal(t, []string{"e0", "e1"}, issued.Order())
}

func TestCanonicalizeDatasetWithBlankGraphName(t *testing.T) {
	dataset := threeCycle(BlankNode{ID: "g"})
	dataset = NewDataset(append(dataset,
		Quad{S: IRI{Value: "urn:ex:s"}, P: IRI{Value: "urn:ex:p"}, O: Literal{Lexical: controlChars}, G: BlankNode{ID: "g"}},
	)...)

	got, err := Canonicalize(dataset)
	require.NoError(t, err)
	expected := `<urn:ex:s> <urn:ex:p> "` + escapedControlChars + `" _:c14n0 .` + "\n" +
		"_:c14n1 <http://example.org/vocab#next> _:c14n2 _:c14n0 .\n" +
		"_:c14n1 <http://example.org/vocab#prev> _:c14n3 _:c14n0 .\n" +
		"_:c14n2 <http://example.org/vocab#next> _:c14n3 _:c14n0 .\n" +
		"_:c14n2 <http://example.org/vocab#prev> _:c14n1 _:c14n0 .\n" +
		"_:c14n3 <http://example.org/vocab#next> _:c14n1 _:c14n0 .\n" +
		"_:c14n3 <http://example.org/vocab#prev> _:c14n2 _:c14n0 .\n"
	assert.Equal(t, expected, got)
}

func TestIssueDatasetWithBlankGraphName(t *testing.T) {
	issued, err := Issue(threeCycle(BlankNode{ID: "g"}))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"g":  "c14n0",
		"e0": "c14n1",
		"e1": "c14n2",
		"e2": "c14n3",
	}, issued.Map())
}

func TestCanonicalizeGraph(t *testing.T) {
	var triples []Triple
	for _, quad := range threeCycle(nil) {
		triples = append(triples, Triple{S: quad.S, P: quad.P, O: quad.O})
	}
	triples = append(triples, Triple{
		S: IRI{Value: "urn:ex:s"}, P: IRI{Value: "urn:ex:p"}, O: Literal{Lexical: controlChars},
	})

	got, err := CanonicalizeGraph(triples)
	require.NoError(t, err)
	expected := `<urn:ex:s> <urn:ex:p> "` + escapedControlChars + `" .` + "\n" +
		"_:c14n0 <http://example.org/vocab#next> _:c14n2 .\n" +
		"_:c14n0 <http://example.org/vocab#prev> _:c14n1 .\n" +
		"_:c14n1 <http://example.org/vocab#next> _:c14n0 .\n" +
		"_:c14n1 <http://example.org/vocab#prev> _:c14n2 .\n" +
		"_:c14n2 <http://example.org/vocab#next> _:c14n1 .\n" +
		"_:c14n2 <http://example.org/vocab#prev> _:c14n0 .\n"
	assert.Equal(t, expected, got)
}

func TestIssueGraphCycle(t *testing.T) {
	issued, err := Issue(threeCycle(nil))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"e0": "c14n0",
		"e1": "c14n2",
		"e2": "c14n1",
	}, issued.Map())
}

func TestIsomorphicDatasetsCanonicalizeIdentically(t *testing.T) {
	renamed := make(Dataset, 0, len(sharedHashDataset()))
	rename := map[string]string{"e0": "x9", "e1": "q", "e2": "zz", "e3": "a1"}
	for _, quad := range sharedHashDataset() {
		renamed = append(renamed, Quad{
			S: renameTerm(quad.S, rename),
			P: quad.P,
			O: renameTerm(quad.O, rename),
			G: renameTerm(quad.G, rename),
		})
	}

	want, err := Canonicalize(sharedHashDataset())
	require.NoError(t, err)
	got, err := Canonicalize(NewDataset(renamed...))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func renameTerm(term Term, rename map[string]string) Term {
	if bnode, ok := term.(BlankNode); ok {
		return BlankNode{ID: rename[bnode.ID]}
	}
	return term
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	first, err := Canonicalize(threeCycle(BlankNode{ID: "g"}))
	require.NoError(t, err)

	reparsed, err := ParseNQuads(first)
	require.NoError(t, err)
	second, err := Canonicalize(reparsed)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCanonicalizeIsDeterministic(t *testing.T) {
	dataset := sharedHashDataset()
	want, err := Canonicalize(dataset)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		got, err := Canonicalize(dataset)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestIssuedLabelDensity(t *testing.T) {
	issued, err := Issue(sharedHashDataset())
	require.NoError(t, err)
	require.Equal(t, 4, issued.Len())

	seen := make(map[string]bool)
	for _, label := range issued.Map() {
		seen[label] = true
	}
	assert.Equal(t, map[string]bool{"c14n0": true, "c14n1": true, "c14n2": true, "c14n3": true}, seen)
}

func TestCanonicalizeDeduplicatesQuads(t *testing.T) {
	quad := Quad{S: IRI{Value: "urn:ex:s"}, P: IRI{Value: "urn:ex:p"}, O: Literal{Lexical: "v"}}
	got, err := Canonicalize(NewDataset(quad, quad))
	require.NoError(t, err)
	assert.Equal(t, "<urn:ex:s> <urn:ex:p> \"v\" .\n", got)
}

func TestCanonicalizeSHA384(t *testing.T) {
	dataset := threeCycle(BlankNode{ID: "g"})

	sha256Out, err := Canonicalize(dataset)
	require.NoError(t, err)
	sha384Out, err := Canonicalize(dataset, WithHashAlgorithm(SHA384))
	require.NoError(t, err)

	again, err := Canonicalize(dataset, WithHashAlgorithm(SHA384))
	require.NoError(t, err)
	assert.Equal(t, sha384Out, again)

	// The digest changes the n-degree resolution order, so line count is
	// preserved while labels may move.
	assert.Equal(t, strings.Count(sha256Out, "\n"), strings.Count(sha384Out, "\n"))

	issued, err := Issue(dataset, WithHashAlgorithm(SHA384))
	require.NoError(t, err)
	assert.Equal(t, 4, issued.Len())
}

func TestRelabelMissingIdentifier(t *testing.T) {
	dataset := NewDataset(
		Quad{S: BlankNode{ID: "e0"}, P: IRI{Value: "urn:ex:p"}, O: Literal{Lexical: "v"}},
	)
	issued, err := Issue(NewDataset())
	require.NoError(t, err)
	_, err = Relabel(dataset, issued)
	require.ErrorIs(t, err, ErrNoCanonicalIdentifier)
	assert.Equal(t, ErrCodeNoCanonicalIdentifier, Code(err))
}

func TestLoggerObservesStepsWithoutAffectingResult(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	want, err := Canonicalize(sharedHashDataset())
	require.NoError(t, err)
	got, err := Canonicalize(sharedHashDataset(), WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NotZero(t, logs.FilterMessageSnippet("hash first degree quads").Len())
	assert.NotZero(t, logs.FilterMessageSnippet("hash n-degree quads").Len())
}

func TestCanonicalizeEmptyDataset(t *testing.T) {
	got, err := Canonicalize(NewDataset())
	require.NoError(t, err)
	assert.Equal(t, "", got)

	issued, err := Issue(NewDataset())
	require.NoError(t, err)
	assert.Equal(t, 0, issued.Len())
}
