package emulator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/cpu"
)

// nicProgram passes a packet around a ring of nodes. Node 0 starts the
// ring; every node adds STEP times its address to Y and forwards it to the
// next node, and the last node forwards it to the NAT.
var nicProgram = []string{
	"        in [addr]",
	"        jnz [addr] loop",
	"        out 1",
	"        out 0",
	"        out 7",
	"loop:   in [x]",
	"        eq [x] -1 [flag]",
	"        jnz [flag] loop",
	"        in [y]",
	"        mul [addr] STEP [tmp]",
	"        add [y] [tmp] [y]",
	"        add [addr] 1 [dst]",
	"        eq [dst] NODES [flag]",
	"        jz [flag] send",
	"        add NAT 0 [dst]",
	"send:   out [dst]",
	"        out [x]",
	"        out [y]",
	"        jz 0 loop",
	"addr:   .data 0",
	"x:      .data 0",
	"y:      .data 0",
	"dst:    .data 0",
	"flag:   .data 0",
	"tmp:    .data 0",
}

func nic(t *testing.T, nodes int, step int64) *cpu.Program {
	asm := &cpu.Assembler{}
	asm.Predefine("NODES", int64(nodes))
	asm.Predefine("STEP", step)
	asm.Predefine("NAT", NAT_ADDRESS)

	return doAssemble(t, asm, nicProgram)
}

func TestNetworkFirstNat(t *testing.T) {
	assert := assert.New(t)

	nw := &Network{Program: nic(t, 4, 1), Nodes: 4}

	packet, err := nw.Run(UNTIL_FIRST_NAT)
	assert.NoError(err)
	assert.Equal(Packet{Dst: NAT_ADDRESS, X: 0, Y: 7 + 1 + 2 + 3}, packet)
	assert.Len(nw.Node, 4)
}

func TestNetworkNatRepeat(t *testing.T) {
	assert := assert.New(t)

	nw := &Network{Program: nic(t, 4, 0), Nodes: 4}

	packet, err := nw.Run(UNTIL_NAT_REPEAT)
	assert.NoError(err)
	assert.Equal(Packet{Dst: NAT_ADDRESS, X: 0, Y: 7}, packet)
}

func TestNetworkDefaultNodes(t *testing.T) {
	assert := assert.New(t)

	nw := &Network{Program: nic(t, NETWORK_NODES, 1)}

	packet, err := nw.Run(UNTIL_FIRST_NAT)
	assert.NoError(err)
	assert.Len(nw.Node, NETWORK_NODES)
	assert.Equal(int64(7+NETWORK_NODES*(NETWORK_NODES-1)/2), packet.Y)
}

func TestNetworkPartialPacket(t *testing.T) {
	assert := assert.New(t)

	prog, err := cpu.ParseProgram("3,100,104,255,3,100,104,5,104,6,3,100,1105,1,10")
	assert.NoError(err)

	nw := &Network{Program: prog, Nodes: 1}
	assert.NoError(nw.Boot())
	assert.Equal([]int64{255}, nw.outbox[0])
	assert.Nil(nw.nat)

	packet, err := nw.Run(UNTIL_FIRST_NAT)
	assert.NoError(err)
	assert.Equal(Packet{Dst: NAT_ADDRESS, X: 5, Y: 6}, packet)
}

func TestNetworkErrors(t *testing.T) {
	assert := assert.New(t)

	nw := &Network{}
	_, err := nw.Run(UNTIL_FIRST_NAT)
	assert.ErrorIs(err, ErrNoProgram)

	// Polls forever, never sends.
	nw = &Network{Program: mustProgram(t, "3,10,1105,1,0"), Nodes: 2}
	_, err = nw.Run(UNTIL_NAT_REPEAT)
	assert.ErrorIs(err, ErrDeadlock)

	// Everyone halts.
	nw = &Network{Program: mustProgram(t, "3,0,99"), Nodes: 3}
	_, err = nw.Run(UNTIL_FIRST_NAT)
	assert.ErrorIs(err, ErrDeadlock)

	nw = &Network{Program: mustProgram(t, "3,0,98"), Nodes: 3}
	_, err = nw.Run(UNTIL_FIRST_NAT)
	assert.ErrorIs(err, cpu.ErrOpcodeInvalid)
	assert.True(strings.Contains(err.Error(), "node 0"))
}
