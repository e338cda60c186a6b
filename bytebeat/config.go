// config.go - engine configuration

package bytebeat

import (
	"fmt"
	"time"
)

const (
	SAMPLE_RATE      = 44100
	BYTEBEAT_RATE    = 8000
	SNAPSHOT_WINDOW  = 512
	DEBOUNCE_QUIET   = 300 * time.Millisecond
	MAX_CHANNELS     = 8
	MAX_SOURCE_LEN   = 4096
	MAX_EXPR_DEPTH   = 256
	FAULT_QUEUE_SIZE = 16
)

// Config fixes the host format and the bytebeat clock for the engine's lifetime.
type Config struct {
	SampleRate   int // host frames per second
	BytebeatRate int // time counter increments per second
	Channels     int // interleaved output channels
	Window       int // snapshot length in samples
}

func DefaultConfig() Config {
	return Config{
		SampleRate:   SAMPLE_RATE,
		BytebeatRate: BYTEBEAT_RATE,
		Channels:     1,
		Window:       SNAPSHOT_WINDOW,
	}
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d must be positive", ErrConfig, c.SampleRate)
	}
	if c.BytebeatRate <= 0 {
		return fmt.Errorf("%w: bytebeat rate %d must be positive", ErrConfig, c.BytebeatRate)
	}
	if c.Channels < 1 || c.Channels > MAX_CHANNELS {
		return fmt.Errorf("%w: channel count %d outside 1..%d", ErrConfig, c.Channels, MAX_CHANNELS)
	}
	if c.Window < 1 {
		return fmt.Errorf("%w: snapshot window %d must be positive", ErrConfig, c.Window)
	}
	return nil
}
