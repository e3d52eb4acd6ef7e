package emu

import (
	"fmt"
	"unsafe"

	"github.com/arl/blip"
	"github.com/veandco/go-sdl2/sdl"

	"chipper/emu/log"
	"chipper/hw/hwdefs"
)

const (
	sampleRate = 44100

	// The square wave is synthesized at this clock rate, then resampled
	// to the output sample rate by blip.
	clockRate      = 1_000_000
	clocksPerFrame = clockRate / hwdefs.FrameRate

	samplesPerFrame = sampleRate/hwdefs.FrameRate + 1

	// Above this many queued bytes, frames are dropped to keep latency low.
	maxQueuedAudio = 4 * samplesPerFrame * 2
)

// Beeper plays a tone while active.
type Beeper interface {
	SetActive(active bool)
	Close() error
}

type nopBeeper struct{}

func (nopBeeper) SetActive(bool) {}
func (nopBeeper) Close() error   { return nil }

// squareWave synthesizes a band-limited square wave, one frame at a time.
type squareWave struct {
	buf *blip.Buffer
	out [samplesPerFrame * 2]int16

	amp        int32
	level      int32  // current output level
	halfPeriod uint64 // in clocks
	next       uint64 // time of next edge, relative to frame start
}

func newSquareWave(tone int, volume float64) *squareWave {
	buf := blip.NewBuffer(samplesPerFrame * 2)
	buf.SetRates(clockRate, sampleRate)
	return &squareWave{
		buf:        buf,
		amp:        int32(volume * 0x7FFF),
		halfPeriod: uint64(clockRate / (2 * tone)),
	}
}

// frame synthesizes one frame worth of samples and returns them. The
// returned slice is only valid until the next call.
func (sw *squareWave) frame(active bool) []int16 {
	switch {
	case active:
		for sw.next < clocksPerFrame {
			target := sw.amp
			if sw.level > 0 {
				target = -sw.amp
			}
			sw.buf.AddDelta(sw.next, target-sw.level)
			sw.level = target
			sw.next += sw.halfPeriod
		}
		sw.next -= clocksPerFrame
	case sw.level != 0:
		sw.buf.AddDelta(0, -sw.level)
		sw.level = 0
		sw.next = 0
	}

	sw.buf.EndFrame(clocksPerFrame)
	n := sw.buf.ReadSamples(sw.out[:], len(sw.out), blip.Mono)
	return sw.out[:n]
}

// AudioBeeper queues the square wave to an SDL audio device.
type AudioBeeper struct {
	dev  sdl.AudioDeviceID
	wave *squareWave
}

func NewAudioBeeper(cfg AudioConfig) (*AudioBeeper, error) {
	var dev sdl.AudioDeviceID
	var err error
	sdl.Do(func() {
		if err = sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
			return
		}
		want := sdl.AudioSpec{
			Freq:     sampleRate,
			Format:   sdl.AUDIO_S16SYS,
			Channels: 1,
			Samples:  1024,
		}
		var have sdl.AudioSpec
		dev, err = sdl.OpenAudioDevice("", false, &want, &have, 0)
		if err != nil {
			return
		}
		sdl.PauseAudioDevice(dev, false)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %s", err)
	}

	log.ModSound.InfoZ("Audio device opened").
		Int("rate", sampleRate).
		Int("tone", cfg.Tone).
		End()

	return &AudioBeeper{
		dev:  dev,
		wave: newSquareWave(cfg.Tone, cfg.Volume),
	}, nil
}

// SetActive must be called once per frame. It queues the samples of one
// frame, a tone when active, silence otherwise.
func (ab *AudioBeeper) SetActive(active bool) {
	samples := ab.wave.frame(active)
	if len(samples) == 0 {
		return
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)

	sdl.Do(func() {
		if sdl.GetQueuedAudioSize(ab.dev) > maxQueuedAudio {
			log.ModSound.DebugZ("audio queue full, dropping frame").End()
			return
		}
		if err := sdl.QueueAudio(ab.dev, buf); err != nil {
			log.ModSound.DebugZ("failed to queue audio buffer").Error("err", err).End()
		}
	})
}

func (ab *AudioBeeper) Close() error {
	sdl.Do(func() {
		sdl.CloseAudioDevice(ab.dev)
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
	})
	return nil
}
