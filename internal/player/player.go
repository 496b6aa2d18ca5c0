// Package player decodes a local audio file, plays it through the system
// audio device and keeps a tap of the PCM being played for analysis.
package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

const (
	bytesPerSec = playbackSampleRate * playbackFrameSize

	// tapSeconds of mono history are kept for analysis, enough for the
	// largest FFT size plus the device buffer.
	tapSeconds = 2

	defaultVolume = 0.8
)

// ErrAudioUnavailable is returned when the audio device cannot be opened.
var ErrAudioUnavailable = errors.New("audio output unavailable")

// output is the subset of *oto.Player the player drives.
type output interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(v float64)
	BufferedSize() int
	Close() error
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   playbackSampleRate,
			ChannelCount: playbackChannels,
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

// openOutput creates a device player pulling from r.
var openOutput = func(r io.Reader) (output, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
	}
	return ctx.NewPlayer(r), nil
}

// countingReader tracks bytes read and whether the source is exhausted.
type countingReader struct {
	reader io.Reader
	pos    int64
	eof    bool
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	if err == io.EOF {
		cr.eof = true
	}
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) state() (pos int64, eof bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos, cr.eof
}

// tapReader copies every whole stereo frame it passes along into a Tap.
type tapReader struct {
	reader  io.Reader
	tap     *Tap
	carry   [playbackFrameSize]byte
	ncarry  int
	samples []int16
}

func (tr *tapReader) Read(p []byte) (int, error) {
	n, err := tr.reader.Read(p)
	if n > 0 {
		tr.feed(p[:n])
	}
	return n, err
}

func (tr *tapReader) feed(b []byte) {
	if tr.ncarry > 0 {
		k := copy(tr.carry[tr.ncarry:], b)
		tr.ncarry += k
		b = b[k:]
		if tr.ncarry < playbackFrameSize {
			return
		}
		tr.samples = append(tr.samples[:0],
			int16(binary.LittleEndian.Uint16(tr.carry[0:])),
			int16(binary.LittleEndian.Uint16(tr.carry[2:])))
		tr.tap.WriteStereo16(tr.samples)
		tr.ncarry = 0
	}

	whole := len(b) / playbackFrameSize * playbackFrameSize
	tr.samples = tr.samples[:0]
	for i := 0; i < whole; i += 2 {
		tr.samples = append(tr.samples, int16(binary.LittleEndian.Uint16(b[i:])))
	}
	tr.tap.WriteStereo16(tr.samples)
	tr.ncarry = copy(tr.carry[:], b[whole:])
}

// Player plays one track. It implements the analysis source interface via
// SampleRate and Latest.
type Player struct {
	file     io.Closer
	counter  *countingReader
	tap      *Tap
	out      output
	logger   *zap.Logger
	length   int64
	duration time.Duration
	volume   float64
	paused   bool
	done     chan struct{}
	stop     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	closed   bool
}

// New opens path and starts playback.
func New(path string, logger *zap.Logger) (*Player, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	logger.Debug("decoder opened",
		zap.String("path", path),
		zap.Int("sample_rate", dec.SampleRate()),
		zap.Int("channels", dec.ChannelCount()))

	p, err := newPlayer(dec, f, logger)
	if err != nil {
		f.Close()
		return nil, err
	}
	return p, nil
}

func newPlayer(dec audioDecoder, file io.Closer, logger *zap.Logger) (*Player, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	norm, err := newResampler(dec)
	if err != nil {
		return nil, err
	}

	tap := NewTap(playbackSampleRate * tapSeconds)
	cr := &countingReader{reader: &tapReader{reader: norm, tap: tap}}

	out, err := openOutput(cr)
	if err != nil {
		return nil, err
	}

	length := norm.Length()
	p := &Player{
		file:     file,
		counter:  cr,
		tap:      tap,
		out:      out,
		logger:   logger,
		length:   length,
		duration: bytesToDuration(length),
		volume:   defaultVolume,
		done:     make(chan struct{}),
		stop:     make(chan struct{}),
	}

	p.out.SetVolume(p.volume)
	p.out.Play()

	p.wg.Add(1)
	go p.monitor(200 * time.Millisecond)
	return p, nil
}

// monitor closes done once the decoder is exhausted and the device has
// played out its buffer.
func (p *Player) monitor(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		paused := p.paused
		buffered := p.out.BufferedSize()
		p.mu.Unlock()

		pos, eof := p.counter.state()
		if !paused && eof && buffered == 0 {
			p.logger.Debug("playback finished", zap.Int64("bytes", pos))
			close(p.done)
			return
		}
	}
}

func bytesToDuration(n int64) time.Duration {
	return time.Duration(n) * time.Second / bytesPerSec
}

// Done returns a channel that closes when playback finishes.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Closed returns a channel that closes when Close is called.
func (p *Player) Closed() <-chan struct{} {
	return p.stop
}

// SampleRate is the rate of the samples returned by Latest.
func (p *Player) SampleRate() int {
	return playbackSampleRate
}

// Latest copies the most recent mono samples the device is about to play,
// skipping what is still queued inside the device buffer.
func (p *Player) Latest(dst []float64) int {
	p.mu.Lock()
	queued := 0
	if !p.closed {
		queued = p.out.BufferedSize() / playbackFrameSize
	}
	p.mu.Unlock()
	return p.tap.Latest(dst, queued)
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if p.paused {
		p.out.Play()
		p.paused = false
	} else {
		p.out.Pause()
		p.paused = true
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns how far playback has progressed.
func (p *Player) Position() time.Duration {
	pos, _ := p.counter.state()
	p.mu.Lock()
	if !p.closed {
		pos -= int64(p.out.BufferedSize())
	}
	p.mu.Unlock()
	return bytesToDuration(max(pos, 0))
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	v = max(0, min(1, v))
	p.volume = v
	if !p.closed {
		p.out.SetVolume(v)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Close stops playback, waits for the monitor to exit and releases the
// file. Calling it again is a no-op.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.stop)
	p.out.Pause()
	err := p.out.Close()
	p.mu.Unlock()

	p.wg.Wait()
	p.tap.Clear()
	if p.file != nil {
		if cerr := p.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
