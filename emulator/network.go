package emulator

import (
	"log"
	"slices"

	"github.com/ezrec/intcode/cpu"
)

const (
	NAT_ADDRESS   = 255  // Address of the NAT.
	NETWORK_NODES = 50   // Default number of nodes.
	IDLE_LIMIT    = 1000 // Idle rounds, with an empty NAT, before deadlock.
)

// Until selects when Network.Run returns.
type Until int

const (
	UNTIL_FIRST_NAT  = Until(0) // The NAT receives its first packet.
	UNTIL_NAT_REPEAT = Until(1) // The NAT delivers the same Y twice in a row.
)

// Packet is a message between network nodes.
type Packet struct {
	Dst int64
	X   int64
	Y   int64
}

// Network is a set of machines exchanging packets.
//
// Each node is booted with its address as its first input. Nodes send
// packets as three outputs: destination, X and Y. A node with nothing
// queued reads -1. Packets for NAT_ADDRESS are held by the NAT, which keeps
// only the latest one and sends it to node 0 when the network is idle.
type Network struct {
	Verbose bool         // If set, enables verbose logging.
	Program *cpu.Program // Program run by every node.
	Nodes   int          // Number of nodes, NETWORK_NODES if zero.

	Node  []*cpu.Cpu   // Node machines.
	Queue []*cpu.Queue // Pending input for each node.

	outbox [][]int64 // Partial packets per node.
	exited []bool    // Nodes which have halted.
	nat    *Packet   // Packet held by the NAT.
	sent   bool      // Set if any packet was sent this round.
}

// Boot creates every node and runs it up to its first input request.
func (nw *Network) Boot() (err error) {
	if nw.Program == nil {
		err = ErrNoProgram
		return
	}

	count := nw.Nodes
	if count == 0 {
		count = NETWORK_NODES
	}

	nw.Node = make([]*cpu.Cpu, count)
	nw.Queue = make([]*cpu.Queue, count)
	nw.outbox = make([][]int64, count)
	nw.exited = make([]bool, count)
	nw.nat = nil
	nw.sent = false

	for n := range count {
		nw.Node[n] = cpu.NewCpuFromProgram(nw.Program)
		nw.Queue[n] = cpu.NewQueue(int64(n))
	}

	for n := range count {
		err = nw.step(n)
		if err != nil {
			return
		}
	}

	return
}

// step runs node n until it stalls, and routes any packets it sent.
func (nw *Network) step(n int) (err error) {
	node := nw.Node[n]

	state, err := node.Run(nw.Queue[n])
	if err != nil {
		err = &ErrNode{Node: n, Err: err}
		return
	}

	if state == cpu.STATE_EXITED {
		nw.exited[n] = true
		if nw.Verbose {
			log.Printf("network: node %d exited", n)
		}
	}

	out := append(nw.outbox[n], node.TakeOutput()...)
	for len(out) >= 3 {
		nw.route(Packet{Dst: out[0], X: out[1], Y: out[2]})
		out = out[3:]
	}
	nw.outbox[n] = out

	return
}

// route delivers a packet to a node's queue, or to the NAT.
func (nw *Network) route(packet Packet) {
	nw.sent = true

	if nw.Verbose {
		log.Printf("network: %+v", packet)
	}

	switch {
	case packet.Dst == NAT_ADDRESS:
		nat := packet
		nw.nat = &nat
	case packet.Dst >= 0 && packet.Dst < int64(len(nw.Node)):
		nw.Queue[packet.Dst].Push(packet.X, packet.Y)
	default:
		if nw.Verbose {
			log.Printf("network: dropped packet for %d", packet.Dst)
		}
	}
}

// Run boots the network and runs it until the condition is met.
func (nw *Network) Run(until Until) (packet Packet, err error) {
	err = nw.Boot()
	if err != nil {
		return
	}

	var delivered bool
	var last_y int64
	var idle_rounds int

	for {
		if until == UNTIL_FIRST_NAT && nw.nat != nil {
			packet = *nw.nat
			return
		}

		idle := true
		nw.sent = false

		if !slices.Contains(nw.exited, false) {
			err = ErrDeadlock
			return
		}

		for n := range nw.Node {
			if nw.exited[n] {
				continue
			}

			queue := nw.Queue[n]
			if queue.Empty() {
				queue.Push(-1)
			} else {
				idle = false
			}

			err = nw.step(n)
			if err != nil {
				return
			}
		}

		if nw.sent {
			idle = false
		}

		if !idle {
			idle_rounds = 0
			continue
		}

		if nw.nat == nil {
			idle_rounds++
			if idle_rounds > IDLE_LIMIT {
				err = ErrDeadlock
				return
			}
			continue
		}

		if until == UNTIL_NAT_REPEAT && delivered && nw.nat.Y == last_y {
			packet = *nw.nat
			return
		}

		if nw.Verbose {
			log.Printf("network: nat -> 0 %+v", *nw.nat)
		}
		nw.Queue[0].Push(nw.nat.X, nw.nat.Y)
		last_y = nw.nat.Y
		delivered = true
	}
}
