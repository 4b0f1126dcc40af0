package hwinfo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/avelansh/oledtop/model"
	"github.com/avelansh/oledtop/shm"
)

// ErrInvalidMagic means the region does not start with the protocol constant.
var ErrInvalidMagic = errors.New("invalid header magic")

// DecodeHeader reads and validates the fixed header at region offset 0.
func DecodeHeader(r *shm.Region) (Header, error) {
	raw, err := r.Slice(0, headerSize)
	if err != nil {
		return Header{}, fmt.Errorf("read header: %w", err)
	}

	magic := binary.LittleEndian.Uint32(raw[offMagic:])
	if magic != HeaderMagic {
		return Header{}, fmt.Errorf("%w: got 0x%08X, want 0x%08X", ErrInvalidMagic, magic, HeaderMagic)
	}

	return Header{
		Magic:        magic,
		Version:      binary.LittleEndian.Uint32(raw[offVersion:]),
		Version2:     binary.LittleEndian.Uint32(raw[offVersion2:]),
		LastUpdate:   int64(binary.LittleEndian.Uint64(raw[offLastUpdate:])),
		SensorOffset: binary.LittleEndian.Uint32(raw[offSensorOffset:]),
		SensorStride: binary.LittleEndian.Uint32(raw[offSensorSize:]),
		SensorCount:  binary.LittleEndian.Uint32(raw[offSensorCount:]),
		EntryOffset:  binary.LittleEndian.Uint32(raw[offEntryOffset:]),
		EntryStride:  binary.LittleEndian.Uint32(raw[offEntrySize:]),
		EntryCount:   binary.LittleEndian.Uint32(raw[offEntryCount:]),
	}, nil
}

// VersionString renders the two header version components, e.g. "137.4".
func (h Header) VersionString() string {
	return fmt.Sprintf("%d.%d", h.Version, h.Version2)
}

// DecodeEntries walks the entry table and returns the active sensor records
// in table order. Inactive slots (type none) are skipped. Every record read
// is bounds-checked against the mapped length first; if the declared extent
// runs past it, the entries decoded so far are returned together with a
// shm.ErrTruncated error so the caller can treat the poll as structurally
// failed without ever reading out of bounds.
func DecodeEntries(r *shm.Region, h Header) ([]model.Sensor, error) {
	if h.EntryStride < entryRecordSize {
		return nil, fmt.Errorf("%w: declared entry stride %d below record size %d",
			shm.ErrTruncated, h.EntryStride, entryRecordSize)
	}

	var out []model.Sensor
	for i := uint64(0); i < uint64(h.EntryCount); i++ {
		off := uint64(h.EntryOffset) + i*uint64(h.EntryStride)
		raw, err := r.Slice(off, entryRecordSize)
		if err != nil {
			return out, fmt.Errorf("entry %d: %w", i, err)
		}

		typ := model.SensorTypeFromRaw(binary.LittleEndian.Uint32(raw[entOffType:]))
		if typ == model.TypeNone {
			continue
		}

		out = append(out, model.Sensor{
			Type:         typ,
			SensorIndex:  binary.LittleEndian.Uint32(raw[entOffSensor:]),
			ID:           binary.LittleEndian.Uint32(raw[entOffID:]),
			NameOriginal: decodeText(raw[entOffNameOrig : entOffNameOrig+entryNameLen]),
			NameUser:     decodeText(raw[entOffNameUser : entOffNameUser+entryNameLen]),
			Unit:         decodeText(raw[entOffUnit : entOffUnit+entryUnitLen]),
			Value:        math.Float64frombits(binary.LittleEndian.Uint64(raw[entOffValue:])),
			ValueMin:     math.Float64frombits(binary.LittleEndian.Uint64(raw[entOffValueMin:])),
			ValueMax:     math.Float64frombits(binary.LittleEndian.Uint64(raw[entOffValueMax:])),
			ValueAvg:     math.Float64frombits(binary.LittleEndian.Uint64(raw[entOffValueAvg:])),
		})
	}
	return out, nil
}

// decodeText decodes a fixed-width field up to the first NUL (full width if
// unterminated). Invalid byte sequences are replaced, never fatal: a torn
// write may corrupt a label mid-poll and that should degrade one record only.
func decodeText(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}
