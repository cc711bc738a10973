// Command arm2rv lowers ARM (armv4t) assembly into RV32I assembly text.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuhanlia1/rv32i-toolchain/internal/armasm"
	"github.com/yuhanlia1/rv32i-toolchain/internal/lower"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arm2rv input_arm.s [output_rv32i.s]",
		Short: "Translate ARM assembly into RV32I assembly",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
		SilenceUsage: true,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	inputPath := args[0]
	src, err := os.ReadFile(inputPath) // #nosec G304 -- CLI-provided input path
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	parser := armasm.NewParser(inputPath)
	prog := parser.Parse(string(src))
	if parser.Errors().HasErrors() {
		return fmt.Errorf("parse errors:\n%s", parser.Errors().Error())
	}

	out, warnings := lower.Lower(prog)
	if text := warnings.PrintWarnings(); text != "" {
		fmt.Fprint(os.Stderr, text)
	}

	if len(args) == 2 {
		if err := os.WriteFile(args[1], []byte(out), 0644); err != nil { // #nosec G306 -- generated assembly text
			return fmt.Errorf("writing %s: %w", args[1], err)
		}
		return nil
	}

	fmt.Print(out)
	return nil
}
