package log

import (
	"fmt"
	"strconv"
)

type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeInt
	FieldTypeUint
	FieldTypeError
	FieldTypeStringer
)

// ZField is a typed field of an EntryZ, formatted only when the entry is
// emitted.
type ZField struct {
	Type FieldType
	Key  string

	String    string
	Integer   uint64
	Error     error
	Interface fmt.Stringer
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeString:
		return f.String
	case FieldTypeUint:
		return strconv.FormatUint(f.Integer, 10)
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldTypeHex8:
		return fmt.Sprintf("%02X", uint8(f.Integer))
	case FieldTypeHex16:
		return fmt.Sprintf("%03X", uint16(f.Integer))
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	case FieldTypeStringer:
		return f.Interface.String()
	}
	return ""
}
