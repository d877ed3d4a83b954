package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/lariatlabs/event-source-service/common"
)

// normalize runs a value through JSON so fixture literals compare equal to
// decoded values regardless of Go's numeric widening.
func normalize(t *testing.T, v map[string]interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]interface{}
	}{
		{"empty map", map[string]interface{}{}},
		{"scalars", map[string]interface{}{"threshold": 5, "enabled": true, "label": "x"}},
		{"nested", map[string]interface{}{
			"threshold": 5,
			"labels":    []interface{}{"a", "b"},
			"rules":     map[string]interface{}{"max": 10.5, "tags": []interface{}{"p", "q"}},
		}},
		{"null value", map[string]interface{}{"optional": nil}},
		{"unicode keys", map[string]interface{}{"événement": "déclencheur"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := Encode(tt.config)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			decoded, err := Decode(blob)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			want := normalize(t, tt.config)
			if !reflect.DeepEqual(decoded, want) {
				t.Errorf("Round trip mismatch: got %v, want %v", decoded, want)
			}
		})
	}
}

func TestEncodeNilConfig(t *testing.T) {
	blob, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("Expected empty map, got %v", decoded)
	}
}

func TestEncodeUnserializableValue(t *testing.T) {
	_, err := Encode(map[string]interface{}{"ch": make(chan int)})
	if err == nil {
		t.Fatal("Expected error for unserializable value")
	}
	if !errors.Is(err, common.ErrEncoding) {
		t.Errorf("Expected ErrEncoding, got: %v", err)
	}
}

func TestEncodeBlobIsTextSafe(t *testing.T) {
	blob, err := Encode(map[string]interface{}{"binary": "\x00\x01\xff"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	for _, b := range blob {
		if b < 0x20 || b > 0x7e {
			t.Fatalf("Blob contains non-printable byte %#x", b)
		}
	}
}

func TestDecodeCorruptedBlob(t *testing.T) {
	valid, err := Encode(map[string]interface{}{"threshold": 5})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		blob []byte
	}{
		{"empty blob", []byte{}},
		{"unknown version", append([]byte{'9'}, valid[1:]...)},
		{"invalid base64", []byte("1!!!not-base64!!!")},
		{"truncated body", valid[:len(valid)-4]},
		{"not an object", append([]byte{'1'}, []byte("WyJhIl0=")...)}, // base64 of ["a"]
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(tt.blob)
			if err == nil {
				t.Fatalf("Expected error, got map %v", decoded)
			}
			if !errors.Is(err, common.ErrCorruption) {
				t.Errorf("Expected ErrCorruption, got: %v", err)
			}
			if decoded != nil {
				t.Errorf("Expected nil map on corruption, got %v", decoded)
			}
		})
	}
}

func TestDecodeIgnoresKeyOrder(t *testing.T) {
	a, err := Encode(map[string]interface{}{"a": 1, "b": 2})
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(a)
	if err != nil {
		t.Fatal(err)
	}

	want := normalize(t, map[string]interface{}{"b": 2, "a": 1})
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("Key order should not matter: got %v, want %v", decoded, want)
	}
}

func TestEnvelopeVersionTag(t *testing.T) {
	blob, err := Encode(map[string]interface{}{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(blob, []byte{'1'}) {
		t.Errorf("Expected version tag '1' prefix, got %q", blob[0])
	}
}
