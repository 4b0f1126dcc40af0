// Package hwinfo decodes the HWiNFO shared memory layout: a fixed header
// followed by a sensor table and an entry table at header-declared offsets.
// The layout is packed little-endian with no implicit padding and is written
// by an external process, so every declared offset, stride, and count is
// validated against the mapped length before it is dereferenced.
package hwinfo

// SharedMemoryName is the mapping published by HWiNFO64 when shared memory
// support is enabled.
const SharedMemoryName = `Global\HWiNFO_SENS_SM2`

// HeaderMagic is the little-endian constant at offset 0 ("HWiS"). A mismatch
// means an incompatible protocol or version and rejects the whole region.
const HeaderMagic uint32 = 0x53695748

// Header field offsets. The header is 44 packed bytes at region offset 0.
const (
	headerSize = 44

	offMagic        = 0
	offVersion      = 4
	offVersion2     = 8
	offLastUpdate   = 12
	offSensorOffset = 20
	offSensorSize   = 24
	offSensorCount  = 28
	offEntryOffset  = 32
	offEntrySize    = 36
	offEntryCount   = 40
)

// Entry record field offsets. Each record is at least 316 packed bytes;
// newer protocol versions may declare a larger stride with fields appended
// past the portion decoded here.
const (
	entryRecordSize = 316

	entOffType     = 0
	entOffSensor   = 4
	entOffID       = 8
	entOffNameOrig = 12
	entOffNameUser = 140
	entOffUnit     = 268
	entOffValue    = 284
	entOffValueMin = 292
	entOffValueMax = 300
	entOffValueAvg = 308

	entryNameLen = 128
	entryUnitLen = 16
)

// Header is the fixed record at the start of the region. All fields come
// from the untrusted external writer; only the magic has been verified when
// a Header is handed out.
type Header struct {
	Magic      uint32
	Version    uint32
	Version2   uint32
	LastUpdate int64

	SensorOffset uint32
	SensorStride uint32
	SensorCount  uint32

	EntryOffset uint32
	EntryStride uint32
	EntryCount  uint32
}
