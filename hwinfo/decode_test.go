package hwinfo

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avelansh/oledtop/model"
	"github.com/avelansh/oledtop/shm"
)

// testEntry is the input to the synthetic segment builder.
type testEntry struct {
	typ      uint32
	index    uint32
	id       uint32
	nameOrig string
	nameUser string
	unit     string
	value    float64
}

func putFixed(dst []byte, s string) {
	copy(dst, s) // remainder stays NUL
}

func encodeEntry(e testEntry) []byte {
	raw := make([]byte, entryRecordSize)
	binary.LittleEndian.PutUint32(raw[entOffType:], e.typ)
	binary.LittleEndian.PutUint32(raw[entOffSensor:], e.index)
	binary.LittleEndian.PutUint32(raw[entOffID:], e.id)
	putFixed(raw[entOffNameOrig:entOffNameOrig+entryNameLen], e.nameOrig)
	putFixed(raw[entOffNameUser:entOffNameUser+entryNameLen], e.nameUser)
	putFixed(raw[entOffUnit:entOffUnit+entryUnitLen], e.unit)
	binary.LittleEndian.PutUint64(raw[entOffValue:], math.Float64bits(e.value))
	binary.LittleEndian.PutUint64(raw[entOffValueMin:], math.Float64bits(e.value-1))
	binary.LittleEndian.PutUint64(raw[entOffValueMax:], math.Float64bits(e.value+1))
	binary.LittleEndian.PutUint64(raw[entOffValueAvg:], math.Float64bits(e.value))
	return raw
}

// buildSegment lays out a header followed directly by the entry table,
// mirroring how HWiNFO packs its segment.
func buildSegment(entries ...testEntry) []byte {
	buf := make([]byte, headerSize+len(entries)*entryRecordSize)
	binary.LittleEndian.PutUint32(buf[offMagic:], HeaderMagic)
	binary.LittleEndian.PutUint32(buf[offVersion:], 137)
	binary.LittleEndian.PutUint32(buf[offVersion2:], 4)
	binary.LittleEndian.PutUint64(buf[offLastUpdate:], 1_700_000_000)
	binary.LittleEndian.PutUint32(buf[offSensorOffset:], headerSize)
	binary.LittleEndian.PutUint32(buf[offSensorSize:], 0)
	binary.LittleEndian.PutUint32(buf[offSensorCount:], 0)
	binary.LittleEndian.PutUint32(buf[offEntryOffset:], headerSize)
	binary.LittleEndian.PutUint32(buf[offEntrySize:], entryRecordSize)
	binary.LittleEndian.PutUint32(buf[offEntryCount:], uint32(len(entries)))
	for i, e := range entries {
		copy(buf[headerSize+i*entryRecordSize:], encodeEntry(e))
	}
	return buf
}

func TestDecodeHeader(t *testing.T) {
	r := shm.NewStaticRegion(buildSegment())
	h, err := DecodeHeader(r)
	require.NoError(t, err)
	require.Equal(t, HeaderMagic, h.Magic)
	require.Equal(t, "137.4", h.VersionString())
	require.Equal(t, uint32(headerSize), h.EntryOffset)
	require.Equal(t, uint32(entryRecordSize), h.EntryStride)
}

func TestDecodeHeaderInvalidMagic(t *testing.T) {
	buf := buildSegment()
	binary.LittleEndian.PutUint32(buf[offMagic:], 0xDEADBEEF)
	_, err := DecodeHeader(shm.NewStaticRegion(buf))
	require.ErrorIs(t, err, ErrInvalidMagic)
}

func TestDecodeHeaderRegionTooSmall(t *testing.T) {
	_, err := DecodeHeader(shm.NewStaticRegion(make([]byte, headerSize-1)))
	require.ErrorIs(t, err, shm.ErrTruncated)
}

func TestDecodeEntries(t *testing.T) {
	buf := buildSegment(
		testEntry{typ: uint32(model.TypeTemp), index: 0, id: 100, nameOrig: "CPU Package", unit: "°C", value: 54.5},
		testEntry{typ: uint32(model.TypeNone), id: 101, nameOrig: "empty slot"},
		testEntry{typ: uint32(model.TypeUsage), index: 1, id: 102, nameOrig: "Total CPU Usage", nameUser: "CPU Load", unit: "%", value: 37},
		testEntry{typ: 999, index: 2, id: 103, nameOrig: "Mystery", unit: "?", value: 1},
	)
	r := shm.NewStaticRegion(buf)
	h, err := DecodeHeader(r)
	require.NoError(t, err)

	entries, err := DecodeEntries(r, h)
	require.NoError(t, err)
	require.Len(t, entries, 3, "type=none entries must be filtered")

	// Table order preserved.
	require.Equal(t, uint32(100), entries[0].ID)
	require.Equal(t, uint32(102), entries[1].ID)
	require.Equal(t, uint32(103), entries[2].ID)

	require.Equal(t, model.TypeTemp, entries[0].Type)
	require.Equal(t, "CPU Package", entries[0].Label())
	require.Equal(t, "°C", entries[0].Unit)
	require.InDelta(t, 54.5, entries[0].Value, 1e-9)
	require.InDelta(t, 53.5, entries[0].ValueMin, 1e-9)
	require.InDelta(t, 55.5, entries[0].ValueMax, 1e-9)

	// User label takes precedence over the original.
	require.Equal(t, "CPU Load", entries[1].Label())
	require.Equal(t, "Total CPU Usage", entries[1].NameOriginal)

	// Unrecognized type tags decode as "other", not as a crash or skip.
	require.Equal(t, model.TypeOther, entries[2].Type)
}

func TestDecodeEntriesTruncatedTable(t *testing.T) {
	buf := buildSegment(
		testEntry{typ: uint32(model.TypeTemp), id: 1, nameOrig: "A", value: 10},
		testEntry{typ: uint32(model.TypeTemp), id: 2, nameOrig: "B", value: 20},
	)
	r := shm.NewStaticRegion(buf)
	h, err := DecodeHeader(r)
	require.NoError(t, err)

	// Writer claims more entries than the mapping holds.
	h.EntryCount = 5
	entries, err := DecodeEntries(r, h)
	require.ErrorIs(t, err, shm.ErrTruncated)
	require.Len(t, entries, 2, "entries before the overrun are returned")
}

func TestDecodeEntriesStrideBelowRecord(t *testing.T) {
	r := shm.NewStaticRegion(buildSegment(
		testEntry{typ: uint32(model.TypeTemp), id: 1, nameOrig: "A", value: 10},
	))
	h, err := DecodeHeader(r)
	require.NoError(t, err)

	h.EntryStride = entryRecordSize - 1
	_, err = DecodeEntries(r, h)
	require.ErrorIs(t, err, shm.ErrTruncated)
}

func TestDecodeTextFields(t *testing.T) {
	// Unterminated field: exactly fills its width, no NUL.
	longName := make([]byte, entryNameLen)
	for i := range longName {
		longName[i] = 'x'
	}
	e := testEntry{typ: uint32(model.TypeTemp), id: 1, nameOrig: string(longName), value: 1}
	buf := buildSegment(e)

	// Corrupt the unit with an invalid UTF-8 sequence.
	unitOff := headerSize + entOffUnit
	buf[unitOff] = 0xFF
	buf[unitOff+1] = 'C'

	r := shm.NewStaticRegion(buf)
	h, err := DecodeHeader(r)
	require.NoError(t, err)
	entries, err := DecodeEntries(r, h)
	require.NoError(t, err, "malformed text degrades the record, never the poll")
	require.Len(t, entries, 1)

	require.Equal(t, string(longName), entries[0].NameOriginal)
	require.Equal(t, "�C", entries[0].Unit)
}

func TestDecodeIdempotent(t *testing.T) {
	buf := buildSegment(
		testEntry{typ: uint32(model.TypeTemp), id: 7, nameOrig: "CPU", unit: "°C", value: 61},
		testEntry{typ: uint32(model.TypeUsage), id: 8, nameOrig: "GPU Load", unit: "%", value: 83},
	)
	r := shm.NewStaticRegion(buf)
	h, err := DecodeHeader(r)
	require.NoError(t, err)

	first, err := DecodeEntries(r, h)
	require.NoError(t, err)
	second, err := DecodeEntries(r, h)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
