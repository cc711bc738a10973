package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunAssemblesHazardExampleEndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.s")
	body := "addi a0,a0,1\naddi a1,a0,2\naddi a2,a0,3\naddi a3,a5,4\nret\n"
	if err := os.WriteFile(src, []byte(body), 0644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := run(src, "", "", "", "", "", ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	stem := strings.TrimSuffix(src, filepath.Ext(src))

	hex, err := os.ReadFile(stem + ".imem.hex")
	if err != nil {
		t.Fatalf("reading imem hex: %v", err)
	}
	allLines := strings.Split(strings.TrimSpace(string(hex)), "\n")
	var lines []string
	for _, l := range allLines {
		if !strings.HasPrefix(l, "#") {
			lines = append(lines, strings.Fields(l)[0])
		}
	}

	// the default stack-pointer stub at slot 0, addi a0,a0,1 at slot 1, then
	// two scheduled nops before addi a1,a0,2 reads a0, matching the
	// distance-1 hazard, then the remaining instructions, then the ret
	// sentinel encoded as a self-branch.
	if len(lines) < 6 {
		t.Fatalf("expected at least 6 words, got %d: %v", len(lines), lines)
	}
	if lines[2] != "0x00000013" || lines[3] != "0x00000013" {
		t.Fatalf("expected two scheduled nops at slots 2,3, got %v", lines[2:4])
	}
	last := lines[len(lines)-1]
	if last != "0x00000063" {
		t.Fatalf("expected HALT word as final slot, got %s", last)
	}

	listing, err := os.ReadFile(stem + ".listing")
	if err != nil {
		t.Fatalf("reading listing: %v", err)
	}
	if !strings.Contains(string(listing), "RV32I Listing") {
		t.Fatalf("listing missing header: %s", listing)
	}

	vh, err := os.ReadFile(stem + ".vh")
	if err != nil {
		t.Fatalf("reading verilog tasks: %v", err)
	}
	if !strings.Contains(string(vh), "load_icache") || !strings.Contains(string(vh), "load_dcache") {
		t.Fatalf("verilog tasks missing expected task names: %s", vh)
	}
}

func TestRunRejectsUnknownMnemonic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.s")
	if err := os.WriteFile(src, []byte("frobnicate a0,a1\n"), 0644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := run(src, "", "", "", "", "", ""); err == nil {
		t.Fatalf("expected an error for an unknown mnemonic")
	}
}

func TestRunWritesFormattedSourceWhenRequested(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.s")
	if err := os.WriteFile(src, []byte("addi a0,a0,1\nret\n"), 0644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	fmtPath := filepath.Join(dir, "prog.fmt.s")

	if err := run(src, "", "", "", "", "", fmtPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	formatted, err := os.ReadFile(fmtPath)
	if err != nil {
		t.Fatalf("reading formatted source: %v", err)
	}
	if !strings.Contains(string(formatted), "addi") {
		t.Fatalf("formatted source missing instruction text: %s", formatted)
	}
}

func TestRunRespectsConfigFileOverrides(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.s")
	if err := os.WriteFile(src, []byte("addi a0,a0,1\nret\n"), 0644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	cfgPath := filepath.Join(dir, "cfg.toml")
	cfgBody := "[memory]\nrodata_base = 2048\nstack_top = 1024\n"
	if err := os.WriteFile(cfgPath, []byte(cfgBody), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := run(src, "", "", "", "", cfgPath, ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	stem := strings.TrimSuffix(src, filepath.Ext(src))
	vh, err := os.ReadFile(stem + ".vh")
	if err != nil {
		t.Fatalf("reading verilog tasks: %v", err)
	}
	if !strings.Contains(string(vh), "STACK_TOP    = 0x0400") {
		t.Fatalf("expected config stack_top to take effect, got: %s", vh)
	}
}

func TestParseHexAcceptsPrefixedAndBareForms(t *testing.T) {
	v, err := parseHex("0x400")
	if err != nil || v != 0x400 {
		t.Fatalf("parseHex(0x400) = %d, %v", v, err)
	}
	v, err = parseHex("400")
	if err != nil || v != 0x400 {
		t.Fatalf("parseHex(400) = %d, %v", v, err)
	}
}
