package codec

import (
	"bytes"
	"io"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		record Record
	}{
		{name: "normal record", record: NewRecord([]byte("key"), []byte("value"))},
		{name: "tombstone record", record: NewTombstone([]byte("key"))},
		{name: "empty key", record: NewRecord([]byte{}, []byte("value"))},
		{name: "empty value", record: NewRecord([]byte("key"), []byte{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.record)

			decoded, n, err := Decode(bytes.NewReader(encoded))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if n != int64(len(encoded)) {
				t.Errorf("consumed = %d, want %d", n, len(encoded))
			}
			if !bytes.Equal(decoded.Key, tt.record.Key) {
				t.Errorf("Key = %v, want %v", decoded.Key, tt.record.Key)
			}
			if decoded.IsTombstone() != tt.record.IsTombstone() {
				t.Errorf("IsTombstone() = %v, want %v", decoded.IsTombstone(), tt.record.IsTombstone())
			}
			if !decoded.IsTombstone() && !bytes.Equal(decoded.Value, tt.record.Value) {
				t.Errorf("Value = %v, want %v", decoded.Value, tt.record.Value)
			}
		})
	}
}

func TestDecode_ShortHeader(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte{1, 2, 3}))
	if err == nil {
		t.Fatal("Decode() should fail on a header shorter than HeaderSize")
	}
}

func TestDecode_EOF(t *testing.T) {
	_, _, err := Decode(bytes.NewReader(nil))
	if err != io.EOF {
		t.Fatalf("Decode() on empty reader = %v, want io.EOF", err)
	}
}

func TestDecode_TruncatedPayload(t *testing.T) {
	encoded := Encode(NewRecord([]byte("key"), []byte("value")))
	truncated := encoded[:len(encoded)-2]

	_, _, err := Decode(bytes.NewReader(truncated))
	if err == nil {
		t.Fatal("Decode() should fail when the value is truncated")
	}
}

func TestDecode_CRCValidation(t *testing.T) {
	encoded := Encode(NewRecord([]byte("key"), []byte("value")))

	// Flip a bit inside the value region, leaving the stored checksum untouched.
	encoded[len(encoded)-1] ^= 0xFF

	_, _, err := Decode(bytes.NewReader(encoded))
	if err == nil {
		t.Fatal("Decode() should have failed with a checksum mismatch")
	}
}

func TestDecode_TombstoneIgnoresChecksum(t *testing.T) {
	encoded := Encode(NewTombstone([]byte("key")))

	decoded, _, err := Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decode() of a well-formed tombstone should not fail, got %v", err)
	}
	if !decoded.IsTombstone() {
		t.Fatal("decoded record should be a tombstone")
	}
}

func TestChecksum_KnownVector(t *testing.T) {
	// CRC-32/CKSUM of ASCII "123456789" is the catalogue check value 0x765E7680.
	got := checksum([]byte("123456789"))
	want := uint32(0x765E7680)
	if got != want {
		t.Errorf("checksum(%q) = %#x, want %#x", "123456789", got, want)
	}
}
