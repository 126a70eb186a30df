package tts

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/nikhilbhutani/memocast/internal/voice"
)

const (
	simSampleRate     = 44100
	simBytesPerSample = 2
	simMinDuration    = 1.0
	simMaxDuration    = 2.0

	// SimulationPayloadBudget caps the silent payload; the longest duration
	// fills it exactly.
	SimulationPayloadBudget = 10000
)

// SimulationHeader prefixes every simulated clip so it resembles an MPEG frame.
var SimulationHeader = [8]byte{0xFF, 0xFB, 0x90, 0x00, 0xFF, 0xFA, 0x1C, 0x80}

// Simulation produces silent mock audio after an artificial delay. It never
// performs network I/O.
type Simulation struct {
	minDelay time.Duration
	maxDelay time.Duration
}

type SimulationOption func(*Simulation)

// WithDelay overrides the artificial latency range. Zero disables it.
func WithDelay(lo, hi time.Duration) SimulationOption {
	return func(s *Simulation) {
		s.minDelay = lo
		s.maxDelay = hi
	}
}

func NewSimulation(opts ...SimulationOption) *Simulation {
	s := &Simulation{
		minDelay: time.Second,
		maxDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxDelay < s.minDelay {
		s.maxDelay = s.minDelay
	}
	return s
}

func (s *Simulation) Name() string { return "simulation" }

func (s *Simulation) Synthesize(ctx context.Context, text string, v voice.Voice) (*Result, error) {
	if err := sleep(ctx, s.delay()); err != nil {
		return nil, err
	}

	duration := simMinDuration + rand.Float64()*(simMaxDuration-simMinDuration)
	pcmBytes := int(simSampleRate*duration) * simBytesPerSample
	maxPCMBytes := int(simSampleRate*simMaxDuration) * simBytesPerSample
	payload := pcmBytes * SimulationPayloadBudget / maxPCMBytes
	if payload > SimulationPayloadBudget {
		payload = SimulationPayloadBudget
	}

	audio := make([]byte, len(SimulationHeader)+payload)
	copy(audio, SimulationHeader[:])

	slog.Debug("simulation audio generated", "voice", v.Key, "duration_s", duration, "bytes", len(audio))

	return &Result{Audio: audio, ContentType: ContentTypeMPEG}, nil
}

func (s *Simulation) delay() time.Duration {
	span := s.maxDelay - s.minDelay
	if span <= 0 {
		return s.minDelay
	}
	return s.minDelay + rand.N(span)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
