package tts

import "time"

// Config selects and configures exactly one provider.
type Config struct {
	Mode        string
	HTTPTimeout time.Duration
	ElevenLabs  ElevenLabsConfig
	Edge        EdgeConfig
}

// New builds the provider for cfg.Mode. An unrecognized mode is a
// configuration error and callers are expected to abort startup on it.
func New(cfg Config) (Provider, error) {
	mode, err := NormalizeMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeFreeStreaming:
		ec := cfg.Edge
		if ec.Timeout == 0 {
			ec.Timeout = cfg.HTTPTimeout
		}
		return NewEdgeTTS(ec), nil
	case ModePaidAPI:
		lc := cfg.ElevenLabs
		if lc.Timeout == 0 {
			lc.Timeout = cfg.HTTPTimeout
		}
		return NewElevenLabs(lc), nil
	default:
		return NewSimulation(), nil
	}
}
