package ambience

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

// AmbientAudio is the contract the stage uses to control background sound.
// The stage only switches it on and off; it never drives audio parameters.
type AmbientAudio interface {
	Enable() error
	Disable()
	IsEnabled() bool
	Dispose()
}

const (
	audioSampleRate = beep.SampleRate(48000)
	audioVolume     = 0.3
	// noiseGain is roughly -25 dB.
	noiseGain = 0.056
	// beat is one quarter note at 120 bpm.
	beat = 500 * time.Millisecond
	// noteChance is the probability a beat plays a note.
	noteChance = 0.3
)

// ambientNotes are the pitches the sequence draws from (C4 E4 G4 B4 D5 F#5).
var ambientNotes = [...]float64{261.63, 329.63, 392.00, 493.88, 587.33, 739.99}

// audioSink is the output device. The default is the beep speaker.
type audioSink interface {
	init(sr beep.SampleRate, bufferSize int) error
	play(s beep.Streamer)
	clear()
	// locked runs fn while the audio goroutine is blocked.
	locked(fn func())
}

type speakerSink struct{}

func (speakerSink) init(sr beep.SampleRate, n int) error { return speaker.Init(sr, n) }

func (speakerSink) play(s beep.Streamer) { speaker.Play(s) }

func (speakerSink) clear() { speaker.Clear() }

func (speakerSink) locked(fn func()) {
	speaker.Lock()
	defer speaker.Unlock()
	fn()
}

// BeepAmbience is an AmbientAudio producing a soft noise bed with sparse
// triangle-wave notes. The output device is opened on the first Enable.
// Methods are safe for concurrent use with the audio goroutine.
type BeepAmbience struct {
	mu          sync.Mutex
	sink        audioSink
	initialized bool
	disposed    bool
	ctrl        *beep.Ctrl
	seed        uint64
}

// NewBeepAmbience creates a disabled ambience. seed drives the note sequence.
func NewBeepAmbience(seed uint64) *BeepAmbience {
	return &BeepAmbience{sink: speakerSink{}, seed: seed}
}

// Enable starts playback, opening the output device if needed.
func (a *BeepAmbience) Enable() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.disposed {
		return fmt.Errorf("enable ambience: %w", ErrUnmounted)
	}
	if !a.initialized {
		if err := a.sink.init(audioSampleRate, audioSampleRate.N(100*time.Millisecond)); err != nil {
			Logger().Warn("audio initialization failed", zap.Error(err))
			return fmt.Errorf("enable ambience: %w", err)
		}
		a.ctrl = &beep.Ctrl{Streamer: newAmbientVolume(newAmbientStream(audioSampleRate, a.seed), audioVolume), Paused: true}
		a.sink.play(a.ctrl)
		a.initialized = true
	}
	a.sink.locked(func() { a.ctrl.Paused = false })
	return nil
}

// Disable pauses playback. The stream keeps its position.
func (a *BeepAmbience) Disable() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ctrl == nil {
		return
	}
	a.sink.locked(func() { a.ctrl.Paused = true })
}

// IsEnabled reports whether sound is playing.
func (a *BeepAmbience) IsEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl != nil && !a.ctrl.Paused && !a.disposed
}

// Dispose stops playback and detaches from the output device.
func (a *BeepAmbience) Dispose() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.disposed {
		return
	}
	a.disposed = true
	if a.initialized {
		a.sink.clear()
	}
	a.ctrl = nil
}

func newAmbientVolume(s beep.Streamer, vol float64) beep.Streamer {
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// ambientStream mixes a low-passed pink-ish noise bed with triangle notes
// triggered on quarter-note beats.
type ambientStream struct {
	sr  beep.SampleRate
	rng *rand.Rand

	pos        int
	beatLen    int
	noteLen    int
	b0, b1, b2 float64
	lp         float64

	notes []voice
}

// voice is one sounding note with an attack/decay/sustain/release envelope.
type voice struct {
	freq  float64
	phase float64
	age   int
}

func newAmbientStream(sr beep.SampleRate, seed uint64) *ambientStream {
	return &ambientStream{
		sr:      sr,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		beatLen: sr.N(beat),
		noteLen: sr.N(2 * beat),
	}
}

func (s *ambientStream) Stream(samples [][2]float64) (int, bool) {
	rate := float64(s.sr)
	for i := range samples {
		if s.pos%s.beatLen == 0 && s.rng.Float64() < noteChance {
			s.notes = append(s.notes, voice{freq: ambientNotes[s.rng.IntN(len(ambientNotes))]})
		}

		// Paul Kellet's economy pink filter followed by a one-pole low-pass
		// whose cutoff drifts between 500 and 1500 Hz.
		w := s.rng.Float64()*2 - 1
		s.b0 = 0.99765*s.b0 + w*0.0990460
		s.b1 = 0.96300*s.b1 + w*0.2965164
		s.b2 = 0.57000*s.b2 + w*1.0526913
		pink := (s.b0 + s.b1 + s.b2 + w*0.1848) * 0.25
		t := float64(s.pos) / rate
		cutoff := 1000 + math.Sin(t*0.1)*500
		alpha := 1 - math.Exp(-2*math.Pi*cutoff/rate)
		s.lp += alpha * (pink - s.lp)
		v := s.lp * noiseGain

		live := s.notes[:0]
		for _, n := range s.notes {
			v += triangle(n.phase) * s.envelope(n.age) * 0.1
			n.phase = math.Mod(n.phase+n.freq/rate, 1)
			n.age++
			if s.envelope(n.age) > 0 {
				live = append(live, n)
			}
		}
		s.notes = live

		samples[i][0], samples[i][1] = v, v
		s.pos++
	}
	return len(samples), true
}

func (s *ambientStream) Err() error { return nil }

// envelope: attack 0.8s, decay 0.3s to sustain 0.1, held for the note
// length, release 2s.
func (s *ambientStream) envelope(age int) float64 {
	t := float64(age) / float64(s.sr)
	const attack, decay, sustain, release = 0.8, 0.3, 0.1, 2.0
	hold := float64(s.noteLen) / float64(s.sr)
	switch {
	case t < attack:
		return t / attack
	case t < attack+decay:
		return 1 - (1-sustain)*(t-attack)/decay
	case t < hold+attack+decay:
		return sustain
	case t < hold+attack+decay+release:
		return sustain * (1 - (t-hold-attack-decay)/release)
	default:
		return 0
	}
}

func triangle(phase float64) float64 {
	return 4*math.Abs(phase-0.5) - 1
}
