package model

// SensorType classifies a shared-memory entry. Values mirror the wire tags
// written by HWiNFO; TypeNone marks an inactive slot.
type SensorType uint32

const (
	TypeNone SensorType = iota
	TypeTemp
	TypeVolt
	TypeFan
	TypeCurrent
	TypePower
	TypeClock
	TypeUsage
	TypeOther
)

// SensorTypeFromRaw maps a wire tag to a SensorType. Tags above the known
// range decode as TypeOther so a corrupt or future tag degrades one record
// instead of leaking an unhandled value downstream.
func SensorTypeFromRaw(v uint32) SensorType {
	switch {
	case v <= uint32(TypeOther):
		return SensorType(v)
	default:
		return TypeOther
	}
}

var sensorTypeNames = []string{"none", "temp", "volt", "fan", "current", "power", "clock", "usage", "other"}

func (t SensorType) String() string {
	if int(t) < len(sensorTypeNames) {
		return sensorTypeNames[t]
	}
	return "other"
}

// Sensor is one decoded shared-memory entry. Values are a snapshot of a
// single poll; the external writer updates the segment continuously, so a
// Sensor must not be retained across polls.
type Sensor struct {
	Type         SensorType
	SensorIndex  uint32
	ID           uint32
	NameOriginal string
	NameUser     string
	Unit         string
	Value        float64
	ValueMin     float64
	ValueMax     float64
	ValueAvg     float64
}

// Label returns the user-assigned name when set, else the original name.
func (s Sensor) Label() string {
	if s.NameUser != "" {
		return s.NameUser
	}
	return s.NameOriginal
}
