package program

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// #region kind
// Kind identifies one of the three operation variants.
type Kind uint8

const (
	KindSpin Kind = iota + 1
	KindExchange
	KindPartner
)

func (k Kind) String() string {
	switch k {
	case KindSpin:
		return "spin"
	case KindExchange:
		return "exchange"
	case KindPartner:
		return "partner"
	}
	return "unknown"
}
// #endregion kind

// #region operation
// Operation is a single dance move. Only the fields of its Kind are meaningful.
type Operation struct {
	Kind   Kind
	Amount int  // spin
	PosA   int  // exchange
	PosB   int  // exchange
	SymA   byte // partner
	SymB   byte // partner
}

// Spin moves the last amount symbols to the front.
func Spin(amount int) Operation {
	return Operation{Kind: KindSpin, Amount: amount}
}

// Exchange swaps the symbols at positions a and b.
func Exchange(a, b int) Operation {
	return Operation{Kind: KindExchange, PosA: a, PosB: b}
}

// Partner swaps the symbols a and b wherever they are.
func Partner(a, b byte) Operation {
	return Operation{Kind: KindPartner, SymA: a, SymB: b}
}

// String renders the operation in its token form, e.g. "x3/4".
func (o Operation) String() string {
	switch o.Kind {
	case KindSpin:
		return "s" + strconv.Itoa(o.Amount)
	case KindExchange:
		return "x" + strconv.Itoa(o.PosA) + "/" + strconv.Itoa(o.PosB)
	case KindPartner:
		return "p" + string([]byte{o.SymA, '/', o.SymB})
	}
	return "?"
}
// #endregion operation

// #region program
// Program is the ordered list of operations replayed on every round.
type Program []Operation

// String joins the operations with commas, the same form ParseProgram reads.
func (p Program) String() string {
	tokens := make([]string, len(p))
	for i, op := range p {
		tokens[i] = op.String()
	}
	return strings.Join(tokens, ",")
}

// Hash returns the hex SHA-256 of the canonical program text.
func (p Program) Hash() string {
	sum := sha256.Sum256([]byte(p.String()))
	return hex.EncodeToString(sum[:])
}
// #endregion program
