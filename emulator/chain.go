package emulator

import (
	"log"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/internal"
)

// Chain is a series of machines, each feeding its output to the next.
// Every machine is primed with a phase setting, and the first machine
// additionally receives the seed signal. With Feedback set the last
// machine's output is looped back to the first until the last machine
// exits.
type Chain struct {
	Verbose  bool         // If set, enables verbose logging.
	Program  *cpu.Program // Program run by every machine.
	Feedback bool         // Loop the last machine back to the first.
}

// Run runs the chain with the given phases, and returns the last signal
// output by the last machine.
func (ch *Chain) Run(phases []int64, seed int64) (signal int64, err error) {
	if ch.Program == nil {
		err = ErrNoProgram
		return
	}

	count := len(phases)
	if count == 0 {
		err = ErrNoPhases
		return
	}

	machines := make([]*cpu.Cpu, count)
	queues := make([]*cpu.Queue, count)
	for n, phase := range phases {
		machines[n] = cpu.NewCpuFromProgram(ch.Program)
		queues[n] = cpu.NewQueue(phase)
	}
	queues[0].Push(seed)

	var got_signal bool
	for {
		var ticks int
		for n, machine := range machines {
			before := machine.Ticks

			var state cpu.State
			state, err = machine.Run(queues[n])
			if err != nil {
				err = &ErrNode{Node: n, Err: err}
				return
			}
			ticks += machine.Ticks - before

			output := machine.TakeOutput()
			last := n == count-1
			if last && len(output) > 0 {
				signal = output[len(output)-1]
				got_signal = true
			}
			if !last || ch.Feedback {
				queues[(n+1)%count].Push(output...)
			}

			if last && state == cpu.STATE_EXITED {
				if !got_signal {
					err = ErrNoOutput
				}
				if ch.Verbose {
					log.Printf("chain: %v -> %v", phases, signal)
				}
				return
			}
		}

		if ticks == 0 {
			err = ErrDeadlock
			return
		}
	}
}

// Best tries every ordering of phases, and returns the largest signal and
// the ordering that produced it.
func (ch *Chain) Best(phases []int64, seed int64) (best int64, order []int64, err error) {
	for perm := range internal.Permutations(phases) {
		var signal int64
		signal, err = ch.Run(perm, seed)
		if err != nil {
			return
		}
		if order == nil || signal > best {
			best = signal
			order = perm
		}
	}

	return
}
