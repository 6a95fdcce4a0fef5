package actuator

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// ErrUnsupportedFormat is returned for pattern files with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("unsupported pattern format")

var patternExts = []string{".wav", ".flac", ".ogg", ".mp3"}

// SupportedExts lists the pattern file extensions, in lookup order.
func SupportedExts() []string {
	return append([]string(nil), patternExts...)
}

// IsSupportedExt reports whether ext is a playable pattern format.
func IsSupportedExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range patternExts {
		if e == ext {
			return true
		}
	}
	return false
}

// pcm is decoded audio: interleaved 16-bit samples.
type pcm struct {
	samples  []int16
	channels int
	rate     int
}

// decodePattern detects the format by extension and returns the pattern as
// 16-bit LE stereo at the output sample rate.
func decodePattern(file string, data []byte) ([]byte, error) {
	var (
		src pcm
		err error
	)
	ext := strings.ToLower(path.Ext(file))
	switch ext {
	case ".wav":
		src, err = decodeWAV(data)
	case ".mp3":
		src, err = decodeMP3(data)
	case ".flac":
		src, err = decodeFLAC(data)
	case ".ogg":
		src, err = decodeOGG(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if src.channels <= 0 || src.rate <= 0 {
		return nil, fmt.Errorf("invalid stream: %d channels at %d Hz", src.channels, src.rate)
	}
	return toOutput(src), nil
}

// --- WAV ---

func decodeWAV(data []byte) (pcm, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return pcm{}, fmt.Errorf("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	depth := int(dec.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		switch depth {
		case 8:
			// 8-bit WAV is unsigned
			s = (s - 128) << 8
		case 24:
			s >>= 8
		case 32:
			s >>= 16
		}
		samples[i] = clamp16(s)
	}
	return pcm{samples: samples, channels: int(dec.NumChans), rate: int(dec.SampleRate)}, nil
}

// --- MP3 ---

func decodeMP3(data []byte) (pcm, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return pcm{}, fmt.Errorf("decoding MP3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return pcm{}, fmt.Errorf("reading MP3: %w", err)
	}

	// go-mp3 always produces 16-bit LE stereo.
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return pcm{samples: samples, channels: 2, rate: dec.SampleRate()}, nil
}

// --- FLAC ---

func decodeFLAC(data []byte) (pcm, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return pcm{}, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bps := int(info.BitsPerSample)

	var samples []int16
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pcm{}, fmt.Errorf("reading FLAC frame: %w", err)
		}
		n := int(frame.Subframes[0].NSamples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				s := int(frame.Subframes[ch].Samples[i])
				switch {
				case bps > 16:
					s >>= (bps - 16)
				case bps < 16:
					s <<= (16 - bps)
				}
				samples = append(samples, clamp16(s))
			}
		}
	}
	return pcm{samples: samples, channels: channels, rate: int(info.SampleRate)}, nil
}

// --- OGG Vorbis ---

func decodeOGG(data []byte) (pcm, error) {
	reader, err := oggvorbis.NewReader(bytes.NewReader(data))
	if err != nil {
		return pcm{}, fmt.Errorf("decoding OGG: %w", err)
	}

	var samples []int16
	buf := make([]float32, 4096)
	for {
		n, err := reader.Read(buf)
		for _, s := range buf[:n] {
			if s > 1.0 {
				s = 1.0
			} else if s < -1.0 {
				s = -1.0
			}
			samples = append(samples, int16(s*32767))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return pcm{}, fmt.Errorf("reading OGG: %w", err)
		}
	}
	return pcm{samples: samples, channels: reader.Channels(), rate: reader.SampleRate()}, nil
}

// toOutput converts src to the output format: stereo at sampleRate,
// linearly resampled. Mono is duplicated; channels past the second are
// dropped.
func toOutput(src pcm) []byte {
	frames := len(src.samples) / src.channels
	if frames == 0 {
		return nil
	}
	outFrames := int(int64(frames) * sampleRate / int64(src.rate))
	raw := make([]byte, outFrames*channelCount*bitDepth)
	step := float64(src.rate) / float64(sampleRate)

	at := func(frame, ch int) float64 {
		if frame >= frames {
			frame = frames - 1
		}
		if ch >= src.channels {
			ch = 0
		}
		return float64(src.samples[frame*src.channels+ch])
	}

	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		frac := pos - float64(j)
		for ch := 0; ch < channelCount; ch++ {
			s := at(j, ch)*(1-frac) + at(j+1, ch)*frac
			off := (i*channelCount + ch) * bitDepth
			binary.LittleEndian.PutUint16(raw[off:], uint16(clamp16(int(s))))
		}
	}
	return raw
}

func clamp16(s int) int16 {
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
