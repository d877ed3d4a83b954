// Package codec encodes arbitrary event source configurations into an
// opaque, text-safe blob suitable for a plain bytes column.
//
// The blob layout is a one-byte envelope version tag followed by the
// standard-base64 text of the JSON document. Only round-trip value equality
// is guaranteed; the inner format may change behind a new version tag.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/lariatlabs/event-source-service/common"
)

// envelopeVersionV1 tags blobs written as base64(JSON). The tag is an ASCII
// digit so the whole blob stays text-safe.
const envelopeVersionV1 = '1'

// Encode serializes a configuration map into a versioned blob. Values must be
// JSON-representable; types implementing json.Marshaler are honored.
func Encode(config map[string]interface{}) ([]byte, error) {
	if config == nil {
		config = map[string]interface{}{}
	}

	payload, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncoding, err)
	}

	encoded := make([]byte, 1+base64.StdEncoding.EncodedLen(len(payload)))
	encoded[0] = envelopeVersionV1
	base64.StdEncoding.Encode(encoded[1:], payload)

	return encoded, nil
}

// Decode reverses Encode. It fails with common.ErrCorruption on any malformed
// envelope or payload; it never substitutes a default configuration.
func Decode(blob []byte) (map[string]interface{}, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("%w: empty blob", common.ErrCorruption)
	}

	switch blob[0] {
	case envelopeVersionV1:
		return decodeV1(blob[1:])
	default:
		return nil, fmt.Errorf("%w: unknown envelope version %q", common.ErrCorruption, blob[0])
	}
}

func decodeV1(body []byte) (map[string]interface{}, error) {
	payload := make([]byte, base64.StdEncoding.DecodedLen(len(body)))
	n, err := base64.StdEncoding.Decode(payload, body)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 body: %v", common.ErrCorruption, err)
	}

	var config map[string]interface{}
	if err := json.Unmarshal(payload[:n], &config); err != nil {
		return nil, fmt.Errorf("%w: invalid configuration document: %v", common.ErrCorruption, err)
	}

	return config, nil
}
