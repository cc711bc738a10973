// Command rv32iasm assembles RV32I assembly text into instruction/data
// memory images plus a human-readable listing and a Verilog preload task
// file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuhanlia1/rv32i-toolchain/internal/config"
	"github.com/yuhanlia1/rv32i-toolchain/internal/encode"
	"github.com/yuhanlia1/rv32i-toolchain/internal/expand"
	"github.com/yuhanlia1/rv32i-toolchain/internal/hazard"
	"github.com/yuhanlia1/rv32i-toolchain/internal/rvasm"
	"github.com/yuhanlia1/rv32i-toolchain/internal/tools"
)

func main() {
	var rodataFlag string
	var stackFlag string
	var imemFlag string
	var dmemFlag string
	var configFlag string
	var formatFlag string

	rootCmd := &cobra.Command{
		Use:   "rv32iasm src",
		Short: "Assemble RV32I source into memory images and a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], rodataFlag, stackFlag, imemFlag, dmemFlag, configFlag, formatFlag)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVar(&rodataFlag, "rodata", "", "rodata base address in hex, e.g. 0x400 (overrides config/default)")
	rootCmd.Flags().StringVar(&stackFlag, "stack", "", "initial sp value in hex, e.g. 0x300 (overrides config/default)")
	rootCmd.Flags().StringVar(&imemFlag, "imem", "", "instruction memory hex output path (default <stem>.imem.hex)")
	rootCmd.Flags().StringVar(&dmemFlag, "dmem", "", "data memory hex output path (default <stem>.dmem.hex)")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "TOML config file path (default: platform config dir, or built-in defaults)")
	rootCmd.Flags().StringVar(&formatFlag, "format", "", "write a column-aligned copy of the pre-expansion source to PATH")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the effective configuration — built-in defaults, overridden by
// an optional TOML file, overridden in turn by whatever flags the caller
// passed explicitly — then assembles srcPath under it.
func run(srcPath, rodataFlag, stackFlag, imemFlag, dmemFlag, configFlag, formatFlag string) error {
	cfg, err := loadConfig(configFlag)
	if err != nil {
		return err
	}

	rodataBase := cfg.Memory.RodataBase
	if rodataFlag != "" {
		v, err := parseHex(rodataFlag)
		if err != nil {
			return fmt.Errorf("--rodata: %w", err)
		}
		rodataBase = v
	}
	stackTop := cfg.Memory.StackTop
	if stackFlag != "" {
		v, err := parseHex(stackFlag)
		if err != nil {
			return fmt.Errorf("--stack: %w", err)
		}
		stackTop = v
	}

	src, err := os.ReadFile(srcPath) // #nosec G304 -- CLI-provided input path
	if err != nil {
		return fmt.Errorf("reading %s: %w", srcPath, err)
	}

	parser := rvasm.NewParser(srcPath)
	prog := parser.Parse(string(src))
	if parser.Errors().HasErrors() {
		return fmt.Errorf("parse errors:\n%s", parser.Errors().Error())
	}

	if formatFlag != "" {
		formatted := tools.Format(prog, tools.DefaultFormatOptions())
		if err := os.WriteFile(formatFlag, []byte(formatted), 0644); err != nil { // #nosec G306
			return fmt.Errorf("writing formatted source: %w", err)
		}
	}

	prog = encode.PrependStartupStub(prog, stackTop)
	prog = expand.Expand(prog)
	prog = hazard.Schedule(prog)

	res, err := encode.Encode(prog, rodataBase, stackTop)
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(srcPath, filepath.Ext(srcPath))
	base := filepath.Base(srcPath)
	insns := instructionTexts(prog)

	listingPath := stem + cfg.Output.ListingSuffix
	verilogPath := stem + cfg.Output.VerilogSuffix
	imemPath := imemFlag
	if imemPath == "" {
		imemPath = stem + cfg.Output.IcacheSuffix
	}
	dmemPath := dmemFlag
	if dmemPath == "" {
		dmemPath = stem + cfg.Output.DcacheSuffix
	}

	if err := os.WriteFile(listingPath, []byte(res.Listing(base, insns)), 0644); err != nil { // #nosec G306
		return fmt.Errorf("writing listing: %w", err)
	}
	if err := os.WriteFile(verilogPath, []byte(res.VerilogTasks(base)), 0644); err != nil { // #nosec G306
		return fmt.Errorf("writing verilog: %w", err)
	}
	if err := os.WriteFile(imemPath, []byte(res.IcacheHex(base, insns)), 0644); err != nil { // #nosec G306
		return fmt.Errorf("writing imem hex: %w", err)
	}
	if err := os.WriteFile(dmemPath, []byte(res.DcacheHex(base)), 0644); err != nil { // #nosec G306
		return fmt.Errorf("writing dmem hex: %w", err)
	}

	fmt.Printf("%d insts, %d slots, HALT byte PC=%d\n", res.TotalSlots, res.TotalSlots, res.HaltBytePC)
	fmt.Printf("wrote %s %s %s %s\n", listingPath, verilogPath, imemPath, dmemPath)
	return nil
}

// loadConfig resolves the config file to use: an explicit --config path, or
// the platform default location when the flag is empty. Either way a
// missing file is not an error — DefaultConfig's values stand in for it.
func loadConfig(configFlag string) (*config.Config, error) {
	if configFlag != "" {
		cfg, err := config.LoadFrom(configFlag)
		if err != nil {
			return nil, fmt.Errorf("--config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func instructionTexts(prog *rvasm.Program) []string {
	var out []string
	for _, l := range prog.Lines {
		if l.Kind == rvasm.LineInstruction {
			out = append(out, fmt.Sprintf("%s %s", l.Instruction.Mnemonic, operandsText(l.Instruction)))
		}
	}
	return out
}

func operandsText(inst *rvasm.Instruction) string {
	var parts []string
	for _, op := range inst.Operands {
		parts = append(parts, op.Raw)
	}
	return strings.Join(parts, ",")
}

func parseHex(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
