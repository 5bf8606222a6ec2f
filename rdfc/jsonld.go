package rdfc

import (
	"github.com/cockroachdb/errors"
	"github.com/piprate/json-gold/ld"
)

// DatasetFromJSONLD converts a parsed JSON-LD document (the result of
// json.Unmarshal into interface{}) to an RDF dataset via json-gold's
// deserialization to N-Quads.
func DatasetFromJSONLD(document interface{}) (Dataset, error) {
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")
	options.Format = "application/n-quads"
	result, err := proc.ToRDF(document, options)
	if err != nil {
		return nil, errors.Wrap(err, "jsonld: to RDF")
	}
	nquads, ok := result.(string)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidInput, "jsonld: unexpected ToRDF result %T", result)
	}
	return ParseNQuads(nquads)
}

// CanonicalizeJSONLD deserializes a JSON-LD document to an RDF dataset and
// canonicalizes it. This is the usual input path for data-integrity proofs
// over JSON-LD credentials.
func CanonicalizeJSONLD(document interface{}, opts ...Option) (string, error) {
	dataset, err := DatasetFromJSONLD(document)
	if err != nil {
		return "", err
	}
	return Canonicalize(dataset, opts...)
}
