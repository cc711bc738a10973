package lower

import (
	"strings"
	"testing"

	"github.com/yuhanlia1/rv32i-toolchain/internal/armasm"
)

func lowerSource(t *testing.T, src string) []string {
	t.Helper()
	prog := armasm.NewParser("t.s").Parse(src)
	out, errs := Lower(prog)
	if errs.HasErrors() {
		t.Fatalf("lower errors: %v", errs.Error())
	}
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if s := strings.TrimSpace(l); s != "" && !strings.HasPrefix(s, ".") {
			lines = append(lines, s)
		}
	}
	return lines
}

func TestLowerMovRegister(t *testing.T) {
	lines := lowerSource(t, "mov r0, r1\n")
	if got := lines[len(lines)-1]; got != "mv\ta0,a1" {
		t.Fatalf("got %q", got)
	}
}

func TestLowerCompareBranchLE(t *testing.T) {
	lines := lowerSource(t, "cmp r2, #0\nble .L1\n")
	if got := lines[len(lines)-1]; got != "bge\tzero,a2,.L1" {
		t.Fatalf("got %q", got)
	}
}

func TestLowerCompareBranchGT(t *testing.T) {
	lines := lowerSource(t, "cmp r2, #0\nbgt .L1\n")
	if got := lines[len(lines)-1]; got != "blt\tzero,a2,.L1" {
		t.Fatalf("got %q", got)
	}
}

func TestLowerPostIndexedLoad(t *testing.T) {
	lines := lowerSource(t, "ldr r0, [r1], #4\n")
	n := len(lines)
	if lines[n-2] != "lw\ta0,0(a1)" || lines[n-1] != "addi\ta1,a1,4" {
		t.Fatalf("got %v", lines[n-2:])
	}
}

func TestLowerPush(t *testing.T) {
	lines := lowerSource(t, "push {fp, lr}\n")
	n := len(lines)
	want := []string{"addi\tsp,sp,-8", "sw\ts0,0(sp)", "sw\tra,4(sp)"}
	got := lines[n-3:]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestLowerSymbolLiteralPool(t *testing.T) {
	src := "ldr r0, .L1\nb .Lend\n.L1:\n.word my_array\n.Lend:\n"
	lines := lowerSource(t, src)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "lui\ta0,%hi(my_array)") || !strings.Contains(joined, "addi\ta0,a0,%lo(my_array)") {
		t.Fatalf("pool not resolved: %s", joined)
	}
	if strings.Contains(joined, ".word") {
		t.Fatalf("literal pool .word leaked into output: %s", joined)
	}
}

func TestLowerNumericLiteralPool(t *testing.T) {
	src := "ldr r0, .L1\n.L1:\n.word 42\n"
	lines := lowerSource(t, src)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "li\ta0,42") {
		t.Fatalf("numeric pool not inlined: %s", joined)
	}
}

func TestLowerUnrecognizedMnemonicEmitsComment(t *testing.T) {
	lines := lowerSource(t, "vsqrt.f32 s0, s1\n")
	if !strings.Contains(lines[len(lines)-1], "[UNTRANSLATED]") {
		t.Fatalf("got %q", lines[len(lines)-1])
	}
}

func TestLowerUnguardedBranchRecordsWarning(t *testing.T) {
	prog := armasm.NewParser("t.s").Parse("ble .L1\n")
	_, errs := Lower(prog)
	if len(errs.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(errs.Warnings))
	}
	if !strings.Contains(errs.Warnings[0].Message, "no preceding cmp") {
		t.Fatalf("warning message = %q", errs.Warnings[0].Message)
	}
}
