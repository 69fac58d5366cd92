//go:build !vsinn

package synap

// Without the 'vsinn' build tag the vendor converter is not linked in.
// NewVSITranscoder still returns a Transcoder so callers can be wired the
// same way; it fails every conversion.

import "fmt"

// VSIBuilt reports whether the vendor toolchain is linked in.
const VSIBuilt = false

type vsiTranscoder struct{}

// NewVSITranscoder returns a transcoder that reports ErrDependencyUnavailable.
func NewVSITranscoder() Transcoder { return vsiTranscoder{} }

func (vsiTranscoder) NBGToEBG(nbg []byte) ([]byte, error) {
	return nil, fmt.Errorf("%w: nbg_to_ebg support not built (missing 'vsinn' build tag)", ErrDependencyUnavailable)
}
