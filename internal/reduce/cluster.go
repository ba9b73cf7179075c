package reduce

import "drift/internal/ir"

// Cluster groups ranked deviations of one kind that fail under the same
// outermost frame: one shared entry point, several divergences behind it.
// The best-ranked member speaks for the cluster in full; the rest are
// carried by reference.
type Cluster struct {
	Kind  ir.DevKind
	Frame string
	Best  ir.Deviation
	Rest  []ClusterRef
}

// ClusterRef points at a clustered deviation without repeating it.
type ClusterRef struct {
	ID      string
	Summary string
}

// Size returns the member count, best included.
func (c Cluster) Size() int { return len(c.Rest) + 1 }

// cluster walks ranked deviations and groups them by kind and outermost
// frame. Deviations without a trace never cluster, kinds never mix, and a
// group of one is no cluster: a shared route takes at least two members.
// Clusters inherit the rank order of their best member.
func cluster(devs []ir.Deviation) []Cluster {
	type key struct {
		kind  ir.DevKind
		frame string
	}
	groups := make(map[key][]int)
	order := make([]key, 0)
	for i, d := range devs {
		frame := d.Trace.Outermost()
		if frame == "" {
			continue
		}
		k := key{kind: d.Kind, frame: frame}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	var out []Cluster
	for _, k := range order {
		members := groups[k]
		if len(members) < 2 {
			continue
		}
		c := Cluster{Kind: k.kind, Frame: k.frame, Best: devs[members[0]]}
		for _, i := range members[1:] {
			c.Rest = append(c.Rest, ClusterRef{ID: devs[i].ID, Summary: devs[i].Summary})
		}
		out = append(out, c)
	}
	return out
}
