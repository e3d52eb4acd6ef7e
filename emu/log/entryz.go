package log

import (
	"fmt"
	"sync"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxZFields = 16

// EntryZ is a log entry built field by field and emitted with End. A nil
// *EntryZ is a disabled entry: every method is a no-op on it.
type EntryZ struct {
	lvl   Level
	mod   Module
	msg   string
	zfbuf [maxZFields]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.zfidx = 0
	return e
}

func (z *EntryZ) add(f ZField) *EntryZ {
	if z == nil {
		return nil
	}
	if z.zfidx < maxZFields {
		z.zfbuf[z.zfidx] = f
		z.zfidx++
	}
	return z
}

func (z *EntryZ) String(key string, v string) *EntryZ {
	return z.add(ZField{Type: FieldTypeString, Key: key, String: v})
}

func (z *EntryZ) Stringer(key string, v fmt.Stringer) *EntryZ {
	return z.add(ZField{Type: FieldTypeStringer, Key: key, Interface: v})
}

func (z *EntryZ) Hex8(key string, v uint8) *EntryZ {
	return z.add(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return z.add(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Int(key string, v int) *EntryZ {
	return z.add(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Uint(key string, v uint64) *EntryZ {
	return z.add(ZField{Type: FieldTypeUint, Key: key, Integer: v})
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	return z.add(ZField{Type: FieldTypeError, Key: key, Error: err})
}

// End emits the entry and releases it.
func (z *EntryZ) End() {
	if z == nil {
		return
	}
	addContexts(z)

	fields := make(logrus.Fields, z.zfidx+1)
	fields["_mod"] = z.mod.String()
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}
	entry := logrus.StandardLogger().WithFields(fields)

	switch z.lvl {
	case DebugLevel:
		entry.Debug(z.msg)
	case InfoLevel:
		entry.Info(z.msg)
	case WarnLevel:
		entry.Warn(z.msg)
	case ErrorLevel:
		entry.Error(z.msg)
	case FatalLevel:
		entry.Fatal(z.msg)
	case PanicLevel:
		entry.Panic(z.msg)
	}

	clear(z.zfbuf[:z.zfidx])
	z.zfidx = 0
	entryPool.Put(z)
}

// A LogContextAdder adds fields to every emitted entry.
type LogContextAdder interface {
	AddLogContext(z *EntryZ)
}

var (
	ctxmu    sync.Mutex
	contexts []LogContextAdder
)

func AddContext(c LogContextAdder) {
	ctxmu.Lock()
	contexts = append(contexts, c)
	ctxmu.Unlock()
}

func RemoveContext(c LogContextAdder) {
	ctxmu.Lock()
	defer ctxmu.Unlock()
	for i := range contexts {
		if contexts[i] == c {
			contexts = append(contexts[:i], contexts[i+1:]...)
			return
		}
	}
}

func addContexts(z *EntryZ) {
	ctxmu.Lock()
	defer ctxmu.Unlock()
	for _, c := range contexts {
		c.AddLogContext(z)
	}
}
