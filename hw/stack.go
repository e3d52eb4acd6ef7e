package hw

// StackSize is the capacity of the call stack.
const StackSize = 16

// Stack holds subroutine return addresses. sp is the number of live entries
// and always stays within [0, StackSize].
type Stack struct {
	entries [StackSize]uint16
	sp      uint8
}

func (s *Stack) Push(addr uint16) error {
	if int(s.sp) == StackSize {
		return ErrStackOverflow
	}
	s.entries[s.sp] = addr
	s.sp++
	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.entries[s.sp], nil
}

// Len returns the number of return addresses on the stack.
func (s Stack) Len() int { return int(s.sp) }

// Frames returns the live return addresses, the oldest first.
func (s Stack) Frames() []uint16 {
	return append([]uint16(nil), s.entries[:s.sp]...)
}

func (s *Stack) reset() {
	*s = Stack{}
}
