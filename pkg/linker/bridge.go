package linker

import "github.com/qnetlab/topoforge/pkg/model"

// BridgePairing records the two direct neighbors of a bridge node: at most
// one classical-side node and one quantum-side node. A bridge never joins
// ordinary network membership; its pairing bypasses the topology manager.
type BridgePairing struct {
	Classical string
	Quantum   string
}

// Paired reports whether at least one side is occupied
func (p *BridgePairing) Paired() bool {
	return p != nil && (p.Classical != "" || p.Quantum != "")
}

// sideFree reports whether the pairing can still accept a node of the given
// kind. Bridges never pair with other bridges.
func (p *BridgePairing) sideFree(kind model.Kind) bool {
	switch kind {
	case model.KindClassical:
		return p == nil || p.Classical == ""
	case model.KindQuantum:
		return p == nil || p.Quantum == ""
	default:
		return false
	}
}

// pairBridge occupies the bridge side matching the neighbor's kind
func (l *Linker) pairBridge(bridge string, neighbor *model.Node) {
	p := l.bridges[bridge]
	if p == nil {
		p = &BridgePairing{}
		l.bridges[bridge] = p
	}
	switch neighbor.Kind {
	case model.KindClassical:
		p.Classical = neighbor.Name
	case model.KindQuantum:
		p.Quantum = neighbor.Name
	}
	l.metrics.SetBridgePairings(l.pairedBridgeCount())
}

// unpairBridge frees the bridge side the neighbor occupied
func (l *Linker) unpairBridge(bridge, neighbor string) {
	p := l.bridges[bridge]
	if p == nil {
		return
	}
	if p.Classical == neighbor {
		p.Classical = ""
	}
	if p.Quantum == neighbor {
		p.Quantum = ""
	}
	if !p.Paired() {
		delete(l.bridges, bridge)
	}
	l.metrics.SetBridgePairings(l.pairedBridgeCount())
}

func (l *Linker) pairedBridgeCount() int {
	count := 0
	for _, p := range l.bridges {
		if p.Paired() {
			count++
		}
	}
	return count
}

// BridgePairing returns a copy of the pairing state of a bridge node
func (l *Linker) BridgePairing(name string) (BridgePairing, bool) {
	p, ok := l.bridges[name]
	if !ok {
		return BridgePairing{}, false
	}
	return *p, true
}
