package scene

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the object-type tag a host assigns to each object.
type Kind int

const (
	KindMesh Kind = iota
	KindCurve
	KindSurface
	KindMeta
	KindFont
	KindArmature
	KindLattice
	KindEmpty
	KindSpeaker
	KindCamera
	KindLight
)

var kindNames = [...]string{
	KindMesh:     "MESH",
	KindCurve:    "CURVE",
	KindSurface:  "SURFACE",
	KindMeta:     "META",
	KindFont:     "FONT",
	KindArmature: "ARMATURE",
	KindLattice:  "LATTICE",
	KindEmpty:    "EMPTY",
	KindSpeaker:  "SPEAKER",
	KindCamera:   "CAMERA",
	KindLight:    "LIGHT",
}

// kindAliases maps older or friendlier tag names onto kinds.
var kindAliases = map[string]Kind{
	"TEXT":     KindFont,
	"LAMP":     KindLight,
	"METABALL": KindMeta,
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// AllKinds returns every recognized kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind parses a kind tag case-insensitively, accepting the aliases
// TEXT, LAMP and METABALL.
func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown object kind %q", s)
}

// KindSet is a set of object kinds.
type KindSet map[Kind]bool

// NewKindSet returns a set holding kinds.
func NewKindSet(kinds ...Kind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

// ParseKindSet parses a comma-separated list such as "mesh,curve".
// An empty string yields an empty set.
func ParseKindSet(list string) (KindSet, error) {
	s := KindSet{}
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return nil, err
		}
		s[k] = true
	}
	return s, nil
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return s[k]
}

// Kinds returns the members in declaration order.
func (s KindSet) Kinds() []Kind {
	kinds := make([]Kind, 0, len(s))
	for k, ok := range s {
		if ok {
			kinds = append(kinds, k)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (s KindSet) String() string {
	names := make([]string, 0, len(s))
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ",")
}
