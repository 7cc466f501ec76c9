// Package codec implements the on-disk serialization format for a single
// Bitcask record: a fixed-size checksummed header followed by the key and,
// unless the record is a tombstone, the value.
//
// Layout, big-endian, no padding:
//
//	offset  size   field
//	0       4      checksum (CRC-32/CKSUM over value bytes; 0 if tombstone)
//	4       8      key_size
//	12      8      value_size (0 for tombstone)
//	20      K      key bytes
//	20+K    V      value bytes (absent if tombstone)
//
// Only the value is checksummed: the read path never reparses a record, it
// seeks straight to the value offset and reads value_size bytes, so the
// checksum is the one integrity check that path can still benefit from.
package codec

import (
	"encoding/binary"
	"io"

	"github.com/iamNilotpal/ignite/pkg/errors"
)

// HeaderSize is the fixed width, in bytes, of every record's header.
const HeaderSize = 20

// Record is one logical entry in a log file: a key with either a value or,
// for a tombstone, no value at all.
type Record struct {
	Key   []byte
	Value []byte // nil or empty denotes a tombstone (value_size 0 on disk).
}

// NewRecord builds a value record for key/value.
func NewRecord(key, value []byte) Record {
	return Record{Key: key, Value: value}
}

// NewTombstone builds a tombstone record for key: a delete marker with no value.
func NewTombstone(key []byte) Record {
	return Record{Key: key, Value: nil}
}

// IsTombstone reports whether r represents a logical delete. A zero-length
// value is encoded with value_size 0, which is the tombstone marker, so it
// counts as a tombstone too.
func (r Record) IsTombstone() bool {
	return len(r.Value) == 0
}

// ValueByteOffset returns the offset of the value, relative to the start
// of the record, i.e. the size of the header plus the key.
func (r Record) ValueByteOffset() int64 {
	return HeaderSize + int64(len(r.Key))
}

// Size returns the total on-disk size of the record.
func (r Record) Size() int64 {
	return HeaderSize + int64(len(r.Key)) + int64(len(r.Value))
}

// Encode serializes r into its on-disk byte representation.
func Encode(r Record) []byte {
	buf := make([]byte, r.Size())

	var crc uint32
	if !r.IsTombstone() {
		crc = checksum(r.Value)
	}

	binary.BigEndian.PutUint32(buf[0:4], crc)
	binary.BigEndian.PutUint64(buf[4:12], uint64(len(r.Key)))
	binary.BigEndian.PutUint64(buf[12:20], uint64(len(r.Value)))
	copy(buf[HeaderSize:], r.Key)
	copy(buf[HeaderSize+len(r.Key):], r.Value)

	return buf
}

// Decode reads one record from r, which must be positioned at the start of
// a record. It returns the decoded record and the number of bytes consumed.
//
// A short read of the header or payload, or a value-checksum mismatch,
// yields a corruption error; Decode never returns a partially valid record.
func Decode(r io.Reader) (Record, int64, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.EOF {
			return Record{}, 0, err
		}
		return Record{}, 0, errors.NewCorruptionError(err, "failed to read record header").
			WithCode(errors.ErrorCodeHeaderReadFailure)
	}

	wantCRC := binary.BigEndian.Uint32(header[0:4])
	keySize := binary.BigEndian.Uint64(header[4:12])
	valueSize := binary.BigEndian.Uint64(header[12:20])

	key := make([]byte, keySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return Record{}, 0, errors.NewCorruptionError(err, "failed to read record key").
			WithCode(errors.ErrorCodePayloadReadFailure)
	}

	var value []byte
	if valueSize > 0 {
		value = make([]byte, valueSize)
		if _, err := io.ReadFull(r, value); err != nil {
			return Record{}, 0, errors.NewCorruptionError(err, "failed to read record value").
				WithCode(errors.ErrorCodePayloadReadFailure)
		}
	}

	rec := Record{Key: key, Value: value}
	if !rec.IsTombstone() {
		if gotCRC := checksum(rec.Value); gotCRC != wantCRC {
			return Record{}, 0, errors.NewCorruptionError(
				nil, "value checksum mismatch",
			).WithDetail("wantCRC", wantCRC).WithDetail("gotCRC", gotCRC)
		}
	}

	return rec, rec.Size(), nil
}
