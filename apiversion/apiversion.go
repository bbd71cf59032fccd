// Package apiversion defines the ordered set of platform API versions that
// public namespaces are tagged with.
//
// The numeric value of each Version is significant: it is the index encoded
// by version marks in built-in namespace names, and ordering between
// versions decides visibility. AllVersions is the lowest level and
// VMInternal the highest.
package apiversion

import (
	"errors"
	"fmt"
	"strings"
)

// Version is an API version level.
type Version uint8

const (
	AllVersions Version = iota
	AIR1_0
	FP10_0
	AIR1_5
	AIR1_5_1
	FP10_0_32
	AIR1_5_2
	FP10_1
	AIR2_0
	AIR2_5
	FP10_2
	AIR2_6
	SWF12
	AIR2_7
	SWF13
	AIR3_0
	SWF14
	AIR3_1
	SWF15
	AIR3_2
	SWF16
	AIR3_3
	SWF17
	AIR3_4
	SWF18
	AIR3_5
	SWF19
	AIR3_6
	SWF20
	AIR3_7
	SWF21
	AIR3_8
	SWF22
	AIR3_9
	SWF23
	AIR4_0
	SWF24
	AIR13_0
	SWF25
	AIR14_0
	SWF26
	AIR15_0
	SWF27
	AIR16_0
	SWF28
	AIR17_0
	SWF29
	AIR18_0
	SWF30
	AIR19_0
	SWF31
	AIR20_0
	SWF32

	// VMInternal marks definitions only the VM's own lookups may see.
	VMInternal
)

// Max is the highest defined version.
const Max = VMInternal

var names = [...]string{
	AllVersions: "AllVersions",
	AIR1_0:      "AIR_1_0",
	FP10_0:      "FP_10_0",
	AIR1_5:      "AIR_1_5",
	AIR1_5_1:    "AIR_1_5_1",
	FP10_0_32:   "FP_10_0_32",
	AIR1_5_2:    "AIR_1_5_2",
	FP10_1:      "FP_10_1",
	AIR2_0:      "AIR_2_0",
	AIR2_5:      "AIR_2_5",
	FP10_2:      "FP_10_2",
	AIR2_6:      "AIR_2_6",
	SWF12:       "SWF_12",
	AIR2_7:      "AIR_2_7",
	SWF13:       "SWF_13",
	AIR3_0:      "AIR_3_0",
	SWF14:       "SWF_14",
	AIR3_1:      "AIR_3_1",
	SWF15:       "SWF_15",
	AIR3_2:      "AIR_3_2",
	SWF16:       "SWF_16",
	AIR3_3:      "AIR_3_3",
	SWF17:       "SWF_17",
	AIR3_4:      "AIR_3_4",
	SWF18:       "SWF_18",
	AIR3_5:      "AIR_3_5",
	SWF19:       "SWF_19",
	AIR3_6:      "AIR_3_6",
	SWF20:       "SWF_20",
	AIR3_7:      "AIR_3_7",
	SWF21:       "SWF_21",
	AIR3_8:      "AIR_3_8",
	SWF22:       "SWF_22",
	AIR3_9:      "AIR_3_9",
	SWF23:       "SWF_23",
	AIR4_0:      "AIR_4_0",
	SWF24:       "SWF_24",
	AIR13_0:     "AIR_13_0",
	SWF25:       "SWF_25",
	AIR14_0:     "AIR_14_0",
	SWF26:       "SWF_26",
	AIR15_0:     "AIR_15_0",
	SWF27:       "SWF_27",
	AIR16_0:     "AIR_16_0",
	SWF28:       "SWF_28",
	AIR17_0:     "AIR_17_0",
	SWF29:       "SWF_29",
	AIR18_0:     "AIR_18_0",
	SWF30:       "SWF_30",
	AIR19_0:     "AIR_19_0",
	SWF31:       "SWF_31",
	AIR20_0:     "AIR_20_0",
	SWF32:       "SWF_32",
	VMInternal:  "VM_INTERNAL",
}

// ErrUnknownVersion is returned by Parse for unrecognized names.
var ErrUnknownVersion = errors.New("unknown API version")

func (v Version) String() string {
	if v.Valid() {
		return names[v]
	}
	return fmt.Sprintf("Version(%d)", uint8(v))
}

// Valid reports whether v is a defined version.
func (v Version) Valid() bool {
	return v <= Max
}

// FromIndex converts an enumeration index to a Version.
func FromIndex(i int) (Version, bool) {
	if i < 0 || i > int(Max) {
		return 0, false
	}
	return Version(i), true
}

// Parse accepts the names produced by String, case-insensitively.
func Parse(s string) (Version, error) {
	for v, name := range names {
		if strings.EqualFold(name, s) {
			return Version(v), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
}

// ---------------------------------------------------------------------------
// Player runtimes and SWF versions
// ---------------------------------------------------------------------------

// PlayerRuntime selects between the Flash Player and AIR version tracks.
type PlayerRuntime uint8

const (
	FlashPlayer PlayerRuntime = iota
	AIR
)

func (r PlayerRuntime) String() string {
	if r == AIR {
		return "AIR"
	}
	return "FlashPlayer"
}

// ParsePlayerRuntime accepts "FlashPlayer" or "AIR", case-insensitively.
// The empty string selects FlashPlayer.
func ParsePlayerRuntime(s string) (PlayerRuntime, error) {
	switch strings.ToLower(s) {
	case "", "flashplayer", "flash-player", "fp":
		return FlashPlayer, nil
	case "air":
		return AIR, nil
	}
	return 0, fmt.Errorf("unknown player runtime %q", s)
}

// bySWF maps SWF versions 10 through 32 to the level each runtime
// introduced with them, indexed by PlayerRuntime. AIR has no release
// beyond 20.0, so SWF 32 stays at AIR20_0.
var bySWF = [...][2]Version{
	10: {FP10_1, AIR2_0},
	11: {FP10_2, AIR2_6},
	12: {SWF12, AIR2_7},
	13: {SWF13, AIR3_0},
	14: {SWF14, AIR3_1},
	15: {SWF15, AIR3_2},
	16: {SWF16, AIR3_3},
	17: {SWF17, AIR3_4},
	18: {SWF18, AIR3_5},
	19: {SWF19, AIR3_6},
	20: {SWF20, AIR3_7},
	21: {SWF21, AIR3_8},
	22: {SWF22, AIR3_9},
	23: {SWF23, AIR4_0},
	24: {SWF24, AIR13_0},
	25: {SWF25, AIR14_0},
	26: {SWF26, AIR15_0},
	27: {SWF27, AIR16_0},
	28: {SWF28, AIR17_0},
	29: {SWF29, AIR18_0},
	30: {SWF30, AIR19_0},
	31: {SWF31, AIR20_0},
	32: {SWF32, AIR20_0},
}

// FromSWFVersion returns the API version content compiled for the given SWF
// version runs against. SWF 9 and earlier have no level of their own and
// map to AllVersions; versions above 32 map to the SWF 32 level. The result
// is never VMInternal.
func FromSWFVersion(swf uint8, runtime PlayerRuntime) Version {
	switch {
	case swf < 10:
		return AllVersions
	case int(swf) >= len(bySWF):
		swf = uint8(len(bySWF) - 1)
	}
	if runtime == AIR {
		return bySWF[swf][1]
	}
	return bySWF[swf][0]
}
