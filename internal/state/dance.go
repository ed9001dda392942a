package state

import "github.com/danielpatrickdp/promenade/internal/program"

// #region apply
// Apply returns the lineup after one operation. It panics with a
// *program.PreconditionError when op does not fit the lineup; callers
// holding untrusted programs run program.Validate first.
func (l Lineup) Apply(op program.Operation) Lineup {
	n := int(l.n)
	switch op.Kind {
	case program.KindSpin:
		if op.Amount < 0 {
			panic(&program.PreconditionError{Op: op, Size: n, Reason: "negative spin"})
		}
		m := op.Amount % n
		if m == 0 {
			return l
		}
		var out Lineup
		out.n = l.n
		copy(out.symbols[:], l.symbols[n-m:n])
		copy(out.symbols[m:], l.symbols[:n-m])
		return out

	case program.KindExchange:
		if op.PosA < 0 || op.PosA >= n || op.PosB < 0 || op.PosB >= n {
			panic(&program.PreconditionError{Op: op, Size: n, Reason: "position out of range"})
		}
		l.symbols[op.PosA], l.symbols[op.PosB] = l.symbols[op.PosB], l.symbols[op.PosA]
		return l

	case program.KindPartner:
		a, b := l.index(op.SymA), l.index(op.SymB)
		if a < 0 || b < 0 {
			panic(&program.PreconditionError{Op: op, Size: n, Reason: "symbol not in lineup"})
		}
		l.symbols[a], l.symbols[b] = l.symbols[b], l.symbols[a]
		return l
	}
	panic(&program.PreconditionError{Op: op, Size: n, Reason: "unknown operation kind"})
}

func (l Lineup) index(sym byte) int {
	for i := 0; i < int(l.n); i++ {
		if l.symbols[i] == sym {
			return i
		}
	}
	return -1
}
// #endregion apply

// #region dance
// Dance applies every operation of prog in order: one round.
func (l Lineup) Dance(prog program.Program) Lineup {
	for _, op := range prog {
		l = l.Apply(op)
	}
	return l
}
// #endregion dance
