package engine

import (
	"fmt"
	"sync"
)

// ErrUnsupportedCodec is returned by NewDecoder when no factory is
// registered for the requested CodecID.
var ErrUnsupportedCodec = fmt.Errorf("engine: unsupported codec")

var (
	decoderRegistry   = make(map[CodecID]DecoderFactory)
	decoderRegistryMu sync.RWMutex
)

// RegisterDecoder registers a DecoderFactory for the given codec. It is
// called from the init() of each codec package (flac, mp3, pcm) that wants
// to be reachable through NewDecoder without the caller importing it by
// name.
func RegisterDecoder(id CodecID, factory DecoderFactory) {
	decoderRegistryMu.Lock()
	defer decoderRegistryMu.Unlock()
	decoderRegistry[id] = factory
}

// NewDecoder constructs a Decoder for params.Codec using the registered
// factory for that codec.
func NewDecoder(params CodecParams, opts DecoderOptions) (Decoder, error) {
	decoderRegistryMu.RLock()
	factory, ok := decoderRegistry[params.Codec]
	decoderRegistryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, params.Codec)
	}
	return factory(params, opts)
}
