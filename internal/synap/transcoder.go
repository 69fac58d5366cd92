package synap

import "errors"

// Transcoder converts an NBG blob into the packed EBG format. The returned
// buffer is owned by the caller.
type Transcoder interface {
	NBGToEBG(nbg []byte) ([]byte, error)
}

// PassthroughTranscoder uses the NBG bytes as the artifact. It pairs with
// HostRuntime, which does not interpret the artifact.
type PassthroughTranscoder struct{}

func (PassthroughTranscoder) NBGToEBG(nbg []byte) ([]byte, error) {
	if len(nbg) == 0 {
		return nil, errors.New("empty nbg")
	}
	out := make([]byte, len(nbg))
	copy(out, nbg)
	return out, nil
}
