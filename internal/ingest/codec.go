package ingest

import (
	"encoding/binary"
	"fmt"
)

// recordWireSize is the encoded length of a Record: three big-endian
// uint64 fields, no framing needed since NATS already delivers whole
// messages.
const recordWireSize = 24

// encodeRecord serializes r into a fixed 24-byte buffer. There is no
// protobuf schema here on purpose (SPEC_FULL.md §3 "Domain stack"):
// CORE's wire shape is three uint64s, and a generated message type would
// add a build step for no structural benefit.
func encodeRecord(r Record) []byte {
	buf := make([]byte, recordWireSize)
	binary.BigEndian.PutUint64(buf[0:8], r.FlowLabel)
	binary.BigEndian.PutUint64(buf[8:16], r.ElementID)
	binary.BigEndian.PutUint64(buf[16:24], r.Timestamp)
	return buf
}

// decodeRecord parses the wire format produced by encodeRecord.
func decodeRecord(buf []byte) (Record, error) {
	if len(buf) != recordWireSize {
		return Record{}, fmt.Errorf("ingest: malformed record: expected %d bytes, got %d", recordWireSize, len(buf))
	}
	return Record{
		FlowLabel: binary.BigEndian.Uint64(buf[0:8]),
		ElementID: binary.BigEndian.Uint64(buf[8:16]),
		Timestamp: binary.BigEndian.Uint64(buf[16:24]),
	}, nil
}
