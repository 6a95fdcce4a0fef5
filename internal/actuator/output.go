package actuator

import (
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 2 // 16-bit = 2 bytes
	bytesPerSec  = sampleRate * channelCount * bitDepth
)

// output is the audio device driving the actuator.
type output interface {
	NewVoice(r io.Reader) voice
	Suspend() error
	Resume() error
	// Err reports a fatal device error, if any.
	Err() error
}

// voice plays one PCM stream on an output.
type voice interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(v float64)
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

// initOto creates the process-wide oto context. oto allows only one.
func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

type otoOutput struct {
	ctx *oto.Context
}

func (o otoOutput) NewVoice(r io.Reader) voice { return o.ctx.NewPlayer(r) }
func (o otoOutput) Suspend() error             { return o.ctx.Suspend() }
func (o otoOutput) Resume() error              { return o.ctx.Resume() }
func (o otoOutput) Err() error                 { return o.ctx.Err() }
