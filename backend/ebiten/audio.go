package ebiten

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/rotisserie/eris"

	"github.com/arepy/arepy/engine"
)

const DefaultSampleRate = 44100

// bytes per stereo 16-bit sample frame
const frameSize = 4

var ErrUnsupportedAudio = eris.New("unsupported audio format")

// Sound is a decoded clip held in memory.
type Sound struct {
	pcm        []byte
	sampleRate int
	volume     float64
	player     *audio.Player
}

func (s *Sound) Duration() time.Duration {
	if s.sampleRate == 0 {
		return 0
	}
	frames := len(s.pcm) / frameSize
	return time.Duration(frames) * time.Second / time.Duration(s.sampleRate)
}

// Audio plays WAV clips through the process-wide Ebitengine audio context.
type Audio struct {
	ctx *audio.Context
}

// NewAudio returns an audio device on the existing context, creating one at sampleRate
// when there is none.
func NewAudio(sampleRate int) *Audio {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	return &Audio{ctx: ctx}
}

func (a *Audio) LoadSound(path string) (engine.Sound, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".wav" {
		return nil, eris.Wrapf(ErrUnsupportedAudio, "%s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sound %s", path)
	}
	stream, err := wav.DecodeWithSampleRate(a.ctx.SampleRate(), bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(err, "decode %s", path)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, eris.Wrapf(err, "decode %s", path)
	}
	return &Sound{pcm: pcm, sampleRate: a.ctx.SampleRate(), volume: 1}, nil
}

// PlaySound restarts s from the beginning.
func (a *Audio) PlaySound(s engine.Sound) {
	snd, ok := s.(*Sound)
	if !ok {
		return
	}
	if snd.player == nil {
		snd.player = a.ctx.NewPlayerFromBytes(snd.pcm)
		snd.player.SetVolume(snd.volume)
	}
	_ = snd.player.SetPosition(0)
	snd.player.Play()
}

func (a *Audio) StopSound(s engine.Sound) {
	if snd, ok := s.(*Sound); ok && snd.player != nil {
		snd.player.Pause()
	}
}

func (a *Audio) IsSoundPlaying(s engine.Sound) bool {
	snd, ok := s.(*Sound)
	return ok && snd.player != nil && snd.player.IsPlaying()
}

func (a *Audio) SetSoundVolume(s engine.Sound, volume float64) {
	snd, ok := s.(*Sound)
	if !ok {
		return
	}
	snd.volume = volume
	if snd.player != nil {
		snd.player.SetVolume(volume)
	}
}

func (a *Audio) UnloadSound(s engine.Sound) {
	if snd, ok := s.(*Sound); ok && snd.player != nil {
		_ = snd.player.Close()
		snd.player = nil
	}
}

// Close is a no-op; the Ebitengine audio context lives as long as the process.
func (a *Audio) Close() error {
	return nil
}
