package player

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	playbackSampleRate     = 48000
	playbackChannels       = 2
	playbackBytesPerSample = 2
	playbackFrameSize      = playbackChannels * playbackBytesPerSample
)

// resampler converts a mono or stereo s16le decoder to 48 kHz stereo using
// linear interpolation between neighbouring source frames.
type resampler struct {
	src      *bufio.Reader
	srcRate  int
	channels int
	length   int64

	a, b    [playbackChannels]int16 // frames the output position lies between
	phase   int                     // position between a and b, in 1/playbackSampleRate units
	started bool
	drained bool
	done    bool

	frame []byte
	out   pending
	raw   []byte
}

// newResampler returns dec unchanged when it already matches the playback
// format.
func newResampler(dec audioDecoder) (audioDecoder, error) {
	rate := dec.SampleRate()
	if rate <= 0 {
		return nil, fmt.Errorf("sample rate %d: %w", rate, ErrUnsupportedFormat)
	}
	ch := dec.ChannelCount()
	if ch < 1 || ch > playbackChannels {
		return nil, fmt.Errorf("%d channels: %w", ch, ErrUnsupportedFormat)
	}
	if rate == playbackSampleRate && ch == playbackChannels {
		return dec, nil
	}

	srcFrames := dec.Length() / int64(ch*playbackBytesPerSample)
	outFrames := srcFrames * playbackSampleRate / int64(rate)
	return &resampler{
		src:      bufio.NewReaderSize(dec, 16*1024),
		srcRate:  rate,
		channels: ch,
		length:   outFrames * playbackFrameSize,
		frame:    make([]byte, ch*playbackBytesPerSample),
	}, nil
}

func (r *resampler) Length() int64     { return r.length }
func (r *resampler) SampleRate() int   { return playbackSampleRate }
func (r *resampler) ChannelCount() int { return playbackChannels }

func (r *resampler) Read(p []byte) (int, error) {
	if len(r.out.buf) > 0 {
		return r.out.drain(p), nil
	}
	if r.done {
		return 0, io.EOF
	}

	want := max(len(p)/playbackFrameSize, 1)
	if cap(r.raw) < want*playbackFrameSize {
		r.raw = make([]byte, want*playbackFrameSize)
	}
	raw := r.raw[:0]

	for range want {
		f, ok, err := r.next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		raw = binary.LittleEndian.AppendUint16(raw, uint16(f[0]))
		raw = binary.LittleEndian.AppendUint16(raw, uint16(f[1]))
	}
	if len(raw) == 0 {
		return 0, io.EOF
	}
	return r.out.hand(p, raw), nil
}

// next produces one output frame. ok is false at the end of the source.
func (r *resampler) next() (frame [playbackChannels]int16, ok bool, err error) {
	if !r.started {
		r.started = true
		if err := r.advance(); err != nil {
			return frame, false, err
		}
		if r.drained {
			r.done = true
			return frame, false, nil
		}
		if err := r.advance(); err != nil {
			return frame, false, err
		}
	}

	for r.phase >= playbackSampleRate {
		r.phase -= playbackSampleRate
		if r.drained {
			r.done = true
			return frame, false, nil
		}
		if err := r.advance(); err != nil {
			return frame, false, err
		}
	}

	for ch := range playbackChannels {
		frame[ch] = lerp16(r.a[ch], r.b[ch], r.phase)
	}
	r.phase += r.srcRate
	return frame, true, nil
}

// advance shifts b into a and reads the following source frame into b. At
// the end of the source b repeats a and drained is set.
func (r *resampler) advance() error {
	r.a = r.b
	if r.drained {
		return nil
	}
	if _, err := io.ReadFull(r.src, r.frame); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			r.drained = true
			return nil
		}
		return err
	}

	left := int16(binary.LittleEndian.Uint16(r.frame))
	right := left
	if r.channels == 2 {
		right = int16(binary.LittleEndian.Uint16(r.frame[2:]))
	}
	r.b = [playbackChannels]int16{left, right}
	return nil
}

func lerp16(a, b int16, phase int) int16 {
	if phase == 0 || a == b {
		return a
	}
	diff := int(b) - int(a)
	return int16(int(a) + (diff*phase+playbackSampleRate/2)/playbackSampleRate)
}
