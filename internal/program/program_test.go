package program

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// #region parse-tests
func TestParse_Examples(t *testing.T) {
	cases := []struct {
		token string
		want  Operation
	}{
		{"s3", Spin(3)},
		{"s0", Spin(0)},
		{"x3/4", Exchange(3, 4)},
		{"x12/15", Exchange(12, 15)},
		{"pe/b", Partner('e', 'b')},
	}
	for _, c := range cases {
		got, err := Parse(c.token)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.token, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %+v, want %+v", c.token, got, c.want)
		}
		if got.String() != c.token {
			t.Errorf("String() = %q, want %q", got.String(), c.token)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	bad := []string{
		"",
		"q1",
		"s",
		"s-1",
		"s+1",
		"sx",
		"x3",
		"x3/",
		"x/4",
		"xa/4",
		"x3/4/5",
		"pe",
		"pe/",
		"pe/bb",
		"pee/b",
		"pE/b",
		"p1/2",
	}
	for _, tok := range bad {
		_, err := Parse(tok)
		if err == nil {
			t.Errorf("Parse(%q): expected error", tok)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Parse(%q): expected *ParseError, got %T", tok, err)
			continue
		}
		if pe.Token != tok {
			t.Errorf("Parse(%q): error token %q", tok, pe.Token)
		}
		if pe.Index != -1 {
			t.Errorf("Parse(%q): expected index -1, got %d", tok, pe.Index)
		}
	}
}

func TestParse_NumericCauseUnwraps(t *testing.T) {
	_, err := Parse("s12z")
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Fatalf("expected strconv.ErrSyntax in chain, got %v", err)
	}
}
// #endregion parse-tests

// #region parse-program-tests
func TestParseProgram(t *testing.T) {
	prog, err := ParseProgram("s1,x3/4,pe/b\n")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	want := Program{Spin(1), Exchange(3, 4), Partner('e', 'b')}
	if len(prog) != len(want) {
		t.Fatalf("expected %d ops, got %d", len(want), len(prog))
	}
	for i := range want {
		if prog[i] != want[i] {
			t.Errorf("op %d: got %v, want %v", i, prog[i], want[i])
		}
	}
	if prog.String() != "s1,x3/4,pe/b" {
		t.Errorf("String() = %q", prog.String())
	}
}

func TestParseProgram_Empty(t *testing.T) {
	prog, err := ParseProgram("  \n")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if len(prog) != 0 {
		t.Fatalf("expected empty program, got %v", prog)
	}
}

func TestParseProgram_ReportsIndex(t *testing.T) {
	_, err := ParseProgram("s1,,pa/b")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Index != 1 {
		t.Errorf("expected index 1, got %d", pe.Index)
	}

	_, err = ParseProgram("s1,x2/3,y7")
	if !errors.As(err, &pe) || pe.Index != 2 || pe.Token != "y7" {
		t.Fatalf("expected error at index 2 for y7, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "example")
	if err := os.WriteFile(path, []byte("s1,x3/4,pe/b\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	prog, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(prog) != 3 {
		t.Fatalf("expected 3 ops, got %d", len(prog))
	}

	if _, err := LoadFile(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestHash_Stable(t *testing.T) {
	a, _ := ParseProgram("s1,x3/4,pe/b")
	b, _ := ParseProgram(" s1 , x3/4 ,pe/b ")
	if a.Hash() != b.Hash() {
		t.Fatal("expected equal hashes for equivalent programs")
	}
	c, _ := ParseProgram("s2,x3/4,pe/b")
	if a.Hash() == c.Hash() {
		t.Fatal("expected different hashes for different programs")
	}
	if len(a.Hash()) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a.Hash()))
	}
}
// #endregion parse-program-tests

// #region validate-tests
func TestValidate(t *testing.T) {
	ok := Program{Spin(99), Exchange(0, 4), Partner('a', 'e')}
	if err := ok.Validate(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []Program{
		{Exchange(0, 5)},
		{Exchange(5, 0)},
		{Partner('a', 'f')},
		{Spin(-1)},
		{Operation{}},
	}
	for _, p := range bad {
		err := p.Validate(5)
		var pre *PreconditionError
		if !errors.As(err, &pre) {
			t.Errorf("Validate(%v): expected *PreconditionError, got %v", p, err)
			continue
		}
		if pre.Size != 5 {
			t.Errorf("expected size 5 in error, got %d", pre.Size)
		}
	}
}

func TestValidate_SizeBounds(t *testing.T) {
	if err := (Program{}).Validate(0); err == nil {
		t.Error("expected error for size 0")
	}
	if err := (Program{}).Validate(MaxSize + 1); err == nil {
		t.Error("expected error for size above MaxSize")
	}
	if err := (Program{Partner('a', 'z')}).Validate(MaxSize); err != nil {
		t.Errorf("unexpected error at MaxSize: %v", err)
	}
}
// #endregion validate-tests
