package rdfc

import (
	"github.com/cockroachdb/errors"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeHNDQCallLimitExceeded indicates the n-degree hashing budget was
	// consumed (potential poison dataset).
	ErrCodeHNDQCallLimitExceeded ErrorCode = "HNDQ_CALL_LIMIT_EXCEEDED"
	// ErrCodeBlankNodeIDCollision indicates an input blank node identifier
	// collides with the canonical label namespace.
	ErrCodeBlankNodeIDCollision ErrorCode = "BLANK_NODE_ID_COLLISION"
	// ErrCodeInvalidInput indicates a malformed term or statement.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeHashAlgorithmUnsupported indicates an unknown digest was requested.
	ErrCodeHashAlgorithmUnsupported ErrorCode = "HASH_ALGORITHM_UNSUPPORTED"
	// ErrCodeNoCanonicalIdentifier indicates relabeling met a blank node the
	// issuer never labeled.
	ErrCodeNoCanonicalIdentifier ErrorCode = "NO_CANONICAL_IDENTIFIER"
	// ErrCodeQuadsNotExist indicates a blank node identifier with no quads in
	// the canonicalization state.
	ErrCodeQuadsNotExist ErrorCode = "QUADS_NOT_EXIST"
)

var (
	// ErrHNDQCallLimitExceeded indicates the configured Hash N-Degree Quads
	// call budget was consumed. The caller may retry with a higher limit.
	ErrHNDQCallLimitExceeded = errors.New("rdfc: hash n-degree quads call limit exceeded")
	// ErrBlankNodeIDCollision indicates relabeling would pass through an
	// unmapped identifier of the canonical label form c14n<digits>, aliasing
	// a label the issuer allocates.
	ErrBlankNodeIDCollision = errors.New("rdfc: blank node identifier collides with canonical prefix")
	// ErrInvalidInput indicates a malformed term received from the parser layer.
	ErrInvalidInput = errors.New("rdfc: invalid input")
	// ErrHashAlgorithmUnsupported indicates the requested digest is not provided.
	ErrHashAlgorithmUnsupported = errors.New("rdfc: unsupported hash algorithm")
	// ErrNoCanonicalIdentifier indicates a blank node was never issued a
	// canonical identifier.
	ErrNoCanonicalIdentifier = errors.New("rdfc: no canonical identifier issued for blank node")
	// ErrQuadsNotExist indicates a blank node identifier absent from the
	// blank-node-to-quads map.
	ErrQuadsNotExist = errors.New("rdfc: blank node has no quads in the dataset")
)

// Code returns the error code for an error, or empty string for nil.
// Unknown errors map to ErrCodeInvalidInput.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrHNDQCallLimitExceeded):
		return ErrCodeHNDQCallLimitExceeded
	case errors.Is(err, ErrBlankNodeIDCollision):
		return ErrCodeBlankNodeIDCollision
	case errors.Is(err, ErrHashAlgorithmUnsupported):
		return ErrCodeHashAlgorithmUnsupported
	case errors.Is(err, ErrNoCanonicalIdentifier):
		return ErrCodeNoCanonicalIdentifier
	case errors.Is(err, ErrQuadsNotExist):
		return ErrCodeQuadsNotExist
	case errors.Is(err, ErrInvalidInput):
		return ErrCodeInvalidInput
	}
	return ErrCodeInvalidInput
}
