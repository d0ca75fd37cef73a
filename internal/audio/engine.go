package audio

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"tymodoro/internal/audio/synth"
)

const DefaultSampleRate = 48000

var (
	// ErrUnknownGenerator wraps synth.ErrUnknownGenerator for callers of this package.
	ErrUnknownGenerator = synth.ErrUnknownGenerator
	// ErrClosed is returned once the Engine was closed.
	ErrClosed = errors.New("audio engine closed")
)

// Options configures an Engine.
type Options struct {
	SampleRate     int
	Volume         float64
	MuteStopsVoice bool
}

// State describes what the Engine is doing.
type State struct {
	Generator synth.Generator
	Active    bool
	Volume    float64
}

// Engine owns the output device, the active ambient voice and the beep path.
// The device is opened lazily on the first call that needs sound.
type Engine struct {
	mu             sync.Mutex
	opener         Opener
	logger         zerolog.Logger
	sampleRate     int
	muteStopsVoice bool
	mixer          *Mixer
	device         Device
	voice          *Voice
	generator      synth.Generator
	volume         float64
	closed         bool
	beep           []float32
	rng            *rand.Rand
	listeners      []func(State)
}

// NewEngine creates an Engine. Nothing is opened until Init.
func NewEngine(opener Opener, options Options, logger zerolog.Logger) *Engine {
	if options.SampleRate <= 0 {
		options.SampleRate = DefaultSampleRate
	}
	return &Engine{
		opener:         opener,
		logger:         logger,
		sampleRate:     options.SampleRate,
		muteStopsVoice: options.MuteStopsVoice,
		mixer:          NewMixer(),
		volume:         clampVolume(options.Volume),
		rng:            synth.NewRand(),
	}
}

// OnChange registers a listener for State changes.
func (engine *Engine) OnChange(listener func(State)) {
	if listener == nil {
		return
	}
	engine.mu.Lock()
	engine.listeners = append(engine.listeners, listener)
	engine.mu.Unlock()
}

// Init acquires the output device. Calling it again is a no-op.
func (engine *Engine) Init() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.initLocked()
}

func (engine *Engine) initLocked() error {
	if engine.closed {
		return ErrClosed
	}
	if engine.device != nil {
		return nil
	}
	if engine.opener == nil {
		return errors.New("no audio output available")
	}
	device, err := engine.opener.Open(engine.sampleRate, engine.mixer.Render)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if err := device.Start(); err != nil {
		_ = device.Close()
		return fmt.Errorf("start output: %w", err)
	}
	engine.device = device
	engine.logger.Info().Int("sample_rate", engine.sampleRate).Msg("audio output opened")
	return nil
}

// StartVoice replaces any playing voice with a new one for generator.
func (engine *Engine) StartVoice(generator synth.Generator) (err error) {
	engine.mu.Lock()
	defer func() {
		state := engine.stateLocked()
		listeners := engine.listeners
		engine.mu.Unlock()
		notify(listeners, state)
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("start voice %s: %v", generator, r)
			engine.logger.Error().Err(err).Msg("voice construction panicked")
		}
	}()

	err = engine.startVoiceLocked(generator)
	if err != nil {
		engine.logger.Warn().Err(err).Str("generator", generator.String()).Msg("start voice")
	}
	return err
}

func (engine *Engine) startVoiceLocked(generator synth.Generator) error {
	engine.stopVoiceLocked()

	recipe, err := synth.RecipeFor(generator)
	if err != nil {
		return err
	}
	engine.generator = generator
	if err := engine.initLocked(); err != nil {
		return err
	}

	voice := NewVoice(recipe, engine.sampleRate, engine.volume, engine.rng)
	engine.voice = voice
	if previous := engine.mixer.SetVoice(voice); previous != nil {
		previous.Stop()
	}
	engine.logger.Debug().
		Str("generator", generator.String()).
		Str("filter", recipe.Filter.Type.String()).
		Float64("volume", engine.volume).
		Msg("voice started")
	return nil
}

// Select toggles generator the way a soundscape button does: selecting the
// playing generator stops it, anything else starts it.
func (engine *Engine) Select(generator synth.Generator) error {
	engine.mu.Lock()
	playing := engine.voice != nil && engine.voice.Generator() == generator
	engine.mu.Unlock()

	if playing {
		engine.StopVoice()
		return nil
	}
	return engine.StartVoice(generator)
}

// SetVolume clamps volume to [0, 1] and applies it to the playing voice.
// With MuteStopsVoice a zero volume tears the voice down; the generator is
// remembered for the next Select.
func (engine *Engine) SetVolume(volume float64) {
	engine.mu.Lock()
	engine.volume = clampVolume(volume)
	if engine.voice != nil {
		if engine.volume == 0 && engine.muteStopsVoice {
			engine.stopVoiceLocked()
		} else {
			engine.voice.SetGain(engine.volume)
		}
	}
	state := engine.stateLocked()
	listeners := engine.listeners
	engine.mu.Unlock()

	notify(listeners, state)
}

// SetMuteStopsVoice changes the zero-volume behaviour.
func (engine *Engine) SetMuteStopsVoice(enabled bool) {
	engine.mu.Lock()
	engine.muteStopsVoice = enabled
	engine.mu.Unlock()
}

// StopVoice silences the ambient voice. Safe to call when nothing plays.
func (engine *Engine) StopVoice() {
	engine.mu.Lock()
	stopped := engine.stopVoiceLocked()
	state := engine.stateLocked()
	listeners := engine.listeners
	engine.mu.Unlock()

	if stopped {
		notify(listeners, state)
	}
}

func (engine *Engine) stopVoiceLocked() bool {
	if engine.voice == nil {
		return false
	}
	engine.mixer.SetVoice(nil)
	engine.voice.Stop()
	engine.logger.Debug().Str("generator", engine.voice.Generator().String()).Msg("voice stopped")
	engine.voice = nil
	return true
}

// PlayBeep plays the completion chime on the shared device.
func (engine *Engine) PlayBeep() (err error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("play beep: %v", r)
			engine.logger.Error().Err(err).Msg("beep playback panicked")
		}
	}()

	if err := engine.initLocked(); err != nil {
		engine.logger.Warn().Err(err).Msg("play beep")
		return err
	}
	if engine.beep == nil {
		engine.beep = synth.Tone(synth.BeepTone, engine.sampleRate)
	}
	engine.mixer.PlayTone(engine.beep)
	return nil
}

// Active returns the playing generator.
func (engine *Engine) Active() (synth.Generator, bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.voice == nil {
		return 0, false
	}
	return engine.voice.Generator(), true
}

// Remembered returns the last generator started, playing or not.
func (engine *Engine) Remembered() synth.Generator {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.generator
}

// Volume returns the current volume.
func (engine *Engine) Volume() float64 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.volume
}

// State returns a snapshot of the engine.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.stateLocked()
}

// Close stops playback and releases the device.
func (engine *Engine) Close() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return nil
	}
	engine.closed = true
	engine.stopVoiceLocked()
	if engine.device == nil {
		return nil
	}
	err := engine.device.Close()
	engine.device = nil
	if err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func (engine *Engine) stateLocked() State {
	state := State{Generator: engine.generator, Volume: engine.volume}
	if engine.voice != nil {
		state.Generator = engine.voice.Generator()
		state.Active = true
	}
	return state
}

func notify(listeners []func(State), state State) {
	for _, listener := range listeners {
		listener(state)
	}
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
