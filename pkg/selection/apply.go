package selection

import "github.com/chazu/camframe/pkg/scene"

// Apply writes selection flags for pool from the scan outcome. visible is
// parallel to pool.
//
//	outside  additive  selected
//	true     false     not visible
//	true     true      not visible, else unchanged
//	false    false     visible
//	false    true      visible, else unchanged
//
// Objects outside pool are not touched.
func Apply(pool []scene.Object, visible []bool, outside, additive bool) {
	for i, o := range pool {
		hit := visible[i] != outside
		switch {
		case hit:
			o.SetSelected(true)
		case !additive:
			o.SetSelected(false)
		}
	}
}
