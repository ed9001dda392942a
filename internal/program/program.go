package program

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MaxSize is the largest supported lineup, one symbol per lowercase letter.
const MaxSize = 26

// #region parse
// Parse converts one token such as "s3", "x3/4" or "pe/b" into an Operation.
func Parse(token string) (Operation, error) {
	return parseAt(token, -1)
}

func parseAt(token string, index int) (Operation, error) {
	fail := func(reason string, err error) (Operation, error) {
		return Operation{}, &ParseError{Token: token, Index: index, Reason: reason, Err: err}
	}
	if token == "" {
		return fail("unrecognized operation", nil)
	}

	rest := token[1:]
	switch token[0] {
	case 's':
		n, err := parseUint(rest)
		if err != nil {
			return fail("invalid spin amount", err)
		}
		return Spin(n), nil

	case 'x':
		left, right, ok := strings.Cut(rest, "/")
		if !ok {
			return fail("missing '/' separator", nil)
		}
		a, err := parseUint(left)
		if err != nil {
			return fail("invalid exchange position", err)
		}
		b, err := parseUint(right)
		if err != nil {
			return fail("invalid exchange position", err)
		}
		return Exchange(a, b), nil

	case 'p':
		if len(rest) != 3 || rest[1] != '/' || !isSymbol(rest[0]) || !isSymbol(rest[2]) {
			return fail("partner expects <symbol>/<symbol>", nil)
		}
		return Partner(rest[0], rest[2]), nil
	}
	return fail("unrecognized operation", nil)
}

// parseUint accepts only plain decimal digits; signs are rejected.
func parseUint(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func isSymbol(c byte) bool {
	return c >= 'a' && c <= 'z'
}
// #endregion parse

// #region parse-program
// ParseProgram splits a comma-separated blob into operations. Surrounding
// whitespace (including a trailing newline) is ignored and an empty blob is
// an empty program.
func ParseProgram(blob string) (Program, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return Program{}, nil
	}
	tokens := strings.Split(blob, ",")
	prog := make(Program, 0, len(tokens))
	for i, tok := range tokens {
		op, err := parseAt(strings.TrimSpace(tok), i)
		if err != nil {
			return nil, err
		}
		prog = append(prog, op)
	}
	return prog, nil
}

// LoadFile reads and parses a program file.
func LoadFile(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program %s: %w", path, err)
	}
	prog, err := ParseProgram(string(data))
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", path, err)
	}
	return prog, nil
}
// #endregion parse-program

// #region validate
// Check reports whether op can apply to a lineup of size symbols.
func (o Operation) Check(size int) error {
	switch o.Kind {
	case KindSpin:
		if o.Amount < 0 {
			return &PreconditionError{Op: o, Size: size, Reason: "negative spin"}
		}
	case KindExchange:
		if o.PosA < 0 || o.PosA >= size || o.PosB < 0 || o.PosB >= size {
			return &PreconditionError{Op: o, Size: size, Reason: "position out of range"}
		}
	case KindPartner:
		last := byte('a' + size - 1)
		if o.SymA < 'a' || o.SymA > last || o.SymB < 'a' || o.SymB > last {
			return &PreconditionError{Op: o, Size: size, Reason: "symbol not in lineup"}
		}
	default:
		return &PreconditionError{Op: o, Size: size, Reason: "unknown operation kind"}
	}
	return nil
}

// Validate checks every operation against a lineup of size symbols.
func (p Program) Validate(size int) error {
	if size < 1 || size > MaxSize {
		return fmt.Errorf("lineup size %d out of range [1, %d]", size, MaxSize)
	}
	for _, op := range p {
		if err := op.Check(size); err != nil {
			return err
		}
	}
	return nil
}
// #endregion validate
