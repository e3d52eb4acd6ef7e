package emu

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"chipper/emu/log"
	"chipper/hw/input"
)

type Config struct {
	Input     input.Config    `toml:"input"`
	Video     VideoConfig     `toml:"video"`
	Audio     AudioConfig     `toml:"audio"`
	Emulation EmulationConfig `toml:"emulation"`

	TraceOut io.WriteCloser `toml:"-"`
}

type VideoConfig struct {
	Scale        int    `toml:"scale"`
	Monitor      int32  `toml:"monitor"`
	DisableVSync bool   `toml:"disable_vsync"`
	Foreground   Color  `toml:"foreground"`
	Background   Color  `toml:"background"`
	Ghost        Color  `toml:"ghost"`
	Policy       Policy `toml:"policy"`
}

type AudioConfig struct {
	DisableAudio bool    `toml:"disable_audio"`
	Volume       float64 `toml:"volume"`
	Tone         int     `toml:"tone"` // Hz
}

type EmulationConfig struct {
	TicksPerFrame int `toml:"ticks_per_frame"`
}

const (
	defaultScale         = 10
	maxScale             = 64
	defaultTicksPerFrame = 10
	maxTicksPerFrame     = 10000
	defaultVolume        = 0.25
	defaultTone          = 440
)

// DefaultConfig returns the configuration used when there's no config file.
func DefaultConfig() Config {
	return Config{
		Input: input.DefaultConfig(),
		Video: VideoConfig{
			Scale:      defaultScale,
			Foreground: Color{R: 0xFF, G: 0xFF, B: 0xFF},
			Background: Color{},
			Ghost:      Color{R: 0x60, G: 0x60, B: 0x60},
			Policy:     PolicyPlain,
		},
		Audio: AudioConfig{
			Volume: defaultVolume,
			Tone:   defaultTone,
		},
		Emulation: EmulationConfig{
			TicksPerFrame: defaultTicksPerFrame,
		},
	}
}

// Check replaces missing or out of range values with their defaults.
func (cfg *Config) Check() {
	cfg.Input.Init()
	cfg.Video.Check()
	cfg.Audio.Check()
	cfg.Emulation.Check()
}

func (vcfg *VideoConfig) Check() {
	if vcfg.Scale <= 0 || vcfg.Scale > maxScale {
		if vcfg.Scale != 0 {
			log.ModVideo.Warnf("Invalid scale %d, fallback to %d", vcfg.Scale, defaultScale)
		}
		vcfg.Scale = defaultScale
	}
}

func (acfg *AudioConfig) Check() {
	if acfg.Volume < 0 || acfg.Volume > 1 {
		log.ModSound.Warnf("Invalid volume %.2f, fallback to %.2f", acfg.Volume, defaultVolume)
		acfg.Volume = defaultVolume
	}
	if acfg.Tone <= 0 || acfg.Tone > sampleRate/2 {
		if acfg.Tone != 0 {
			log.ModSound.Warnf("Invalid tone %dHz, fallback to %dHz", acfg.Tone, defaultTone)
		}
		acfg.Tone = defaultTone
	}
}

func (ecfg *EmulationConfig) Check() {
	if ecfg.TicksPerFrame <= 0 || ecfg.TicksPerFrame > maxTicksPerFrame {
		if ecfg.TicksPerFrame != 0 {
			log.ModEmu.Warnf("Invalid ticks per frame %d, fallback to %d", ecfg.TicksPerFrame, defaultTicksPerFrame)
		}
		ecfg.TicksPerFrame = defaultTicksPerFrame
	}
}

// ConfigDir returns the chipper config directory, creating it if necessary.
var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("chipper")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the chipper config
// directory, or provides the default one.
func LoadConfigOrDefault() Config {
	path := filepath.Join(ConfigDir(), cfgFilename)
	cfg, err := LoadConfig(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.ModEmu.WarnZ("Failed to load config, using default").
				String("path", path).
				Error("err", err).
				End()
		}
		return DefaultConfig()
	}
	return cfg
}

// LoadConfig loads the configuration file at path. Missing values take
// their default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		log.ModEmu.WarnZ("Unknown config keys").
			String("path", path).
			String("keys", fmt.Sprint(undec)).
			End()
	}
	cfg.Check()
	return cfg, nil
}

// SaveConfig into chipper config directory.
func SaveConfig(cfg Config) error {
	return saveConfig(cfg, filepath.Join(ConfigDir(), cfgFilename))
}

func saveConfig(cfg Config, path string) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
