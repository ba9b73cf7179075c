package ast

// NodeID references a node inside one Tree's arena.
type NodeID uint32

// NoNodeID is the absent-node sentinel.
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
