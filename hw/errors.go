package hw

import "errors"

var (
	// ErrStackOverflow is returned when a subroutine call is made while
	// the call stack is full.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrStackUnderflow is returned when returning from a subroutine
	// while the call stack is empty.
	ErrStackUnderflow = errors.New("return without matching call")

	// ErrProgramTooLarge is returned when a program image doesn't fit
	// between the program start and the end of memory.
	ErrProgramTooLarge = errors.New("program too large")

	// ErrHalted is returned by every execution attempt after the CPU has
	// halted on a fault, until the next Reset.
	ErrHalted = errors.New("cpu halted")
)
