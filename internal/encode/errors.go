package encode

import (
	"fmt"

	"github.com/yuhanlia1/rv32i-toolchain/internal/rvasm"
)

// EncodingError carries the failing instruction's source location alongside
// the underlying cause, so a fatal encode failure can name the offending
// line the way the rest of the toolchain does.
type EncodingError struct {
	Instruction *rvasm.Instruction
	Message     string
	Wrapped     error
}

func (e *EncodingError) Error() string {
	if e.Instruction == nil {
		if e.Wrapped != nil {
			return fmt.Sprintf("encoding error: %s: %v", e.Message, e.Wrapped)
		}
		return fmt.Sprintf("encoding error: %s", e.Message)
	}

	pos := e.Instruction.Pos
	location := ""
	if pos.Filename != "" {
		location = fmt.Sprintf("%s:%d:%d: ", pos.Filename, pos.Line, pos.Column)
	} else if pos.Line > 0 {
		location = fmt.Sprintf("line %d: ", pos.Line)
	}

	var msg string
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s%s: %v", location, e.Message, e.Wrapped)
	} else {
		msg = fmt.Sprintf("%s%s", location, e.Message)
	}
	if e.Instruction.Raw != "" {
		msg = fmt.Sprintf("%s\n  source: %s", msg, e.Instruction.Raw)
	}
	return msg
}

func (e *EncodingError) Unwrap() error {
	return e.Wrapped
}

func newEncodingError(inst *rvasm.Instruction, message string) *EncodingError {
	return &EncodingError{Instruction: inst, Message: message}
}

func wrapEncodingError(inst *rvasm.Instruction, err error) error {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EncodingError); ok {
		return ee
	}
	return &EncodingError{Instruction: inst, Message: "failed to encode instruction", Wrapped: err}
}
