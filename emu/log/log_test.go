package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"gopkg.in/Sirupsen/logrus.v0"
)

type frameContext int

func (f frameContext) AddLogContext(z *EntryZ) { z.Int("frame", int(f)) }

type keyName string

func (k keyName) String() string { return string(k) }

func TestFieldValue(t *testing.T) {
	tests := []struct {
		field ZField
		want  string
	}{
		{ZField{Type: FieldTypeString, String: "rom"}, "rom"},
		{ZField{Type: FieldTypeHex8, Integer: 0xA}, "0A"},
		{ZField{Type: FieldTypeHex16, Integer: 0x200}, "200"},
		{ZField{Type: FieldTypeHex16, Integer: 0xFFFF}, "FFFF"},
		{ZField{Type: FieldTypeInt, Integer: uint64(0xFFFFFFFFFFFFFFFF)}, "-1"},
		{ZField{Type: FieldTypeUint, Integer: 42}, "42"},
		{ZField{Type: FieldTypeError, Error: errors.New("boom")}, "boom"},
		{ZField{Type: FieldTypeError}, "<nil>"},
		{ZField{Type: FieldTypeStringer, Interface: keyName("key A")}, "key A"},
		{ZField{Type: FieldTypeUnknown}, ""},
	}
	for _, tt := range tests {
		if got := tt.field.Value(); got != tt.want {
			t.Errorf("Value() = %q, want %q", got, tt.want)
		}
	}
}

func TestDisabledEntry(t *testing.T) {
	DisableDebugModules(ModuleMaskAll)
	if z := ModCPU.DebugZ("not logged"); z != nil {
		t.Fatalf("DebugZ on a disabled module should return nil")
	}
	// All methods accept a nil entry.
	ModCPU.DebugZ("not logged").Hex16("pc", 0x200).String("s", "v").End()
}

func TestModuleByName(t *testing.T) {
	for _, name := range ModuleNames() {
		mod, ok := ModuleByName(name)
		if !ok || mod.String() != name {
			t.Errorf("ModuleByName(%q) = %v, %v", name, mod, ok)
		}
	}
	if _, ok := ModuleByName("ppu"); ok {
		t.Errorf("ModuleByName(ppu) should fail")
	}
}

func TestContexts(t *testing.T) {
	ctx := frameContext(7)
	AddContext(ctx)

	var z EntryZ
	addContexts(&z)
	if z.zfidx != 1 || z.zfbuf[0].Key != "frame" || z.zfbuf[0].Value() != "7" {
		t.Errorf("context fields = %+v", z.zfbuf[:z.zfidx])
	}

	RemoveContext(ctx)
	z = EntryZ{}
	addContexts(&z)
	if z.zfidx != 0 {
		t.Errorf("context not removed")
	}
}

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	logrus.SetOutput(&buf)
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	defer func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetFormatter(&logrus.TextFormatter{})
	}()

	ctx := frameContext(3)
	AddContext(ctx)
	defer RemoveContext(ctx)

	ModVideo.Warnf("Invalid scale %d", 99)

	out := buf.String()
	for _, want := range []string{"Invalid scale 99", "_mod=video", "frame=3", "level=warn"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q should contain %q", out, want)
		}
	}
}
