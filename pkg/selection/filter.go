package selection

import "github.com/chazu/camframe/pkg/scene"

// Filter restricts the pool to objects of the given kinds. A disabled
// filter, or an enabled one with no kinds, admits every object.
type Filter struct {
	Enabled bool
	Kinds   scene.KindSet
}

// Admits reports whether objects of kind k belong in the pool.
func (f Filter) Admits(k scene.Kind) bool {
	if !f.Enabled || len(f.Kinds) == 0 {
		return true
	}
	return f.Kinds.Has(k)
}

// Partition splits objs into the pool the filter admits and the objects it
// excludes. The object named camera is left out of both.
func (f Filter) Partition(objs []scene.Object, camera string) (pool, excluded []scene.Object) {
	for _, o := range objs {
		if camera != "" && o.Name() == camera {
			continue
		}
		if f.Admits(o.Kind()) {
			pool = append(pool, o)
		} else {
			excluded = append(excluded, o)
		}
	}
	return pool, excluded
}
