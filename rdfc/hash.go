package rdfc

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"

	"github.com/cockroachdb/errors"
)

// HashAlgorithm selects the digest used for first-degree, related and
// n-degree hashing.
type HashAlgorithm string

const (
	// SHA256 is the default digest of RDFC-1.0.
	SHA256 HashAlgorithm = "sha256"
	// SHA384 is the alternate digest defined by RDFC-1.0.
	SHA384 HashAlgorithm = "sha384"
)

func (a HashAlgorithm) newHash() (hash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	default:
		return nil, errors.Wrapf(ErrHashAlgorithmUnsupported, "%q", string(a))
	}
}

// hexDigest returns the lowercase hexadecimal digest of data.
func hexDigest(alg HashAlgorithm, data string) (string, error) {
	h, err := alg.newHash()
	if err != nil {
		return "", err
	}
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil)), nil
}
