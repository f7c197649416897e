// Package audio plays background music and generated sound effects
// through ebiten's audio context.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"

	"superengine/logging"
)

// SampleRate is used for the context, decoders and generated tones
const SampleRate = 44100

// ErrUnsupportedFormat is returned for music files that are not mp3 or ogg
var ErrUnsupportedFormat = errors.New("unsupported audio format")

type format int

const (
	formatMP3 format = iota
	formatOgg
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return formatMP3, nil
	case ".ogg":
		return formatOgg, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// System handles all audio playback
type System struct {
	audioContext *audio.Context
	bgmPlayer    *audio.Player
	bgmFile      *os.File
	volume       float64
	log          *logging.Logger
	tones        []*audio.Player
}

// NewSystem creates the audio system, reusing ebiten's context when one
// already exists
func NewSystem(log *logging.Logger) *System {
	if log == nil {
		log = logging.Discard()
	}
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(SampleRate)
	}
	return &System{
		audioContext: ctx,
		volume:       1.0,
		log:          log,
	}
}

// PlayBGM starts playing background music, replacing any current track
func (s *System) PlayBGM(path string) error {
	s.StopBGM()

	kind, err := formatOf(path)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}

	var stream io.ReadSeeker
	switch kind {
	case formatMP3:
		stream, err = mp3.DecodeWithSampleRate(SampleRate, file)
	case formatOgg:
		stream, err = vorbis.DecodeWithSampleRate(SampleRate, file)
	}
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to decode audio file: %w", err)
	}

	player, err := s.audioContext.NewPlayer(audio.NewInfiniteLoop(stream, lengthOf(stream)))
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create audio player: %w", err)
	}

	s.bgmFile = file
	s.bgmPlayer = player
	s.bgmPlayer.SetVolume(s.volume)
	s.bgmPlayer.Play()
	s.log.Infof("playing %s", path)
	return nil
}

func lengthOf(stream io.ReadSeeker) int64 {
	if l, ok := stream.(interface{ Length() int64 }); ok {
		return l.Length()
	}
	return 0
}

// StopBGM stops the background music
func (s *System) StopBGM() {
	if s.bgmPlayer != nil {
		s.bgmPlayer.Close()
		s.bgmPlayer = nil
	}
	if s.bgmFile != nil {
		s.bgmFile.Close()
		s.bgmFile = nil
	}
}

// PauseBGM pauses the background music
func (s *System) PauseBGM() {
	if s.bgmPlayer != nil {
		s.bgmPlayer.Pause()
	}
}

// ResumeBGM resumes the background music
func (s *System) ResumeBGM() {
	if s.bgmPlayer != nil {
		s.bgmPlayer.Play()
	}
}

// IsBGMPlaying returns whether background music is currently playing
func (s *System) IsBGMPlaying() bool {
	return s.bgmPlayer != nil && s.bgmPlayer.IsPlaying()
}

// SetVolume sets the volume for background music, clamped to 0..1
func (s *System) SetVolume(volume float64) {
	s.volume = min(max(volume, 0), 1)
	if s.bgmPlayer != nil {
		s.bgmPlayer.SetVolume(s.volume)
	}
}

// Volume returns the current volume setting
func (s *System) Volume() float64 {
	return s.volume
}

// PlayTone plays a generated sine tone at the current volume
func (s *System) PlayTone(freq float64, dur time.Duration) error {
	tone, err := NewTone(beep.SampleRate(SampleRate), freq, dur, s.volume)
	if err != nil {
		return err
	}
	player, err := s.audioContext.NewPlayerF32(newStreamReader(tone))
	if err != nil {
		return fmt.Errorf("failed to create tone player: %w", err)
	}
	player.Play()

	s.reapTones()
	s.tones = append(s.tones, player)
	return nil
}

// reapTones closes tone players that have finished
func (s *System) reapTones() {
	live := s.tones[:0]
	for _, p := range s.tones {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		p.Close()
	}
	s.tones = live
}

// Close stops all playback
func (s *System) Close() {
	s.StopBGM()
	for _, p := range s.tones {
		p.Close()
	}
	s.tones = nil
}
