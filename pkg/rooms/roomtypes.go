// Package rooms holds the room-type alias tables and layout unit
// conversions shared with the practice layout editor. Pure lookup tables
// and arithmetic; no I/O.
package rooms

import "strings"

// RoomType is the canonical room classification used across practice
// layouts and staffing capacity checks.
type RoomType string

const (
	RoomTreatment RoomType = "treatment"
	RoomLab       RoomType = "lab"
	RoomReception RoomType = "reception"
	RoomXRay      RoomType = "xray"
	RoomOffice    RoomType = "office"
	RoomWaiting   RoomType = "waiting"
	RoomStorage   RoomType = "storage"
	RoomUnknown   RoomType = "unknown"
)

// aliases maps the labels that appear in imported layouts and legacy data
// onto canonical room types. Lookup is case-insensitive.
var aliases = map[string]RoomType{
	"treatment":        RoomTreatment,
	"behandlung":       RoomTreatment,
	"behandlungsraum":  RoomTreatment,
	"exam":             RoomTreatment,
	"examination":      RoomTreatment,
	"sprechzimmer":     RoomTreatment,
	"lab":              RoomLab,
	"labor":            RoomLab,
	"laboratory":       RoomLab,
	"reception":        RoomReception,
	"empfang":          RoomReception,
	"anmeldung":        RoomReception,
	"front desk":       RoomReception,
	"xray":             RoomXRay,
	"x-ray":            RoomXRay,
	"roentgen":         RoomXRay,
	"röntgen":          RoomXRay,
	"office":           RoomOffice,
	"buero":            RoomOffice,
	"büro":             RoomOffice,
	"waiting":          RoomWaiting,
	"wartezimmer":      RoomWaiting,
	"waiting room":     RoomWaiting,
	"storage":          RoomStorage,
	"lager":            RoomStorage,
	"abstellraum":      RoomStorage,
}

// Canonical resolves a room label to its canonical type. Unrecognized
// labels map to RoomUnknown rather than failing; layouts regularly carry
// free-text room names.
func Canonical(label string) RoomType {
	if t, ok := aliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return t
	}
	return RoomUnknown
}

// IsClinical reports whether the room type is used for patient care and
// therefore counts toward treatment capacity.
func (t RoomType) IsClinical() bool {
	return t == RoomTreatment || t == RoomLab || t == RoomXRay
}

// CountByType tallies canonical room types over a list of raw labels.
func CountByType(labels []string) map[RoomType]int {
	counts := make(map[RoomType]int)
	for _, label := range labels {
		counts[Canonical(label)]++
	}
	return counts
}
