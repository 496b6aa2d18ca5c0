package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// ErrUnsupportedFormat is returned for files no decoder can handle.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// audioDecoder yields interleaved s16le PCM at its own rate and channel
// count.
type audioDecoder interface {
	io.Reader
	Length() int64 // total PCM bytes, possibly estimated
	SampleRate() int
	ChannelCount() int
}

// newDecoder detects the format by file extension.
func newDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".aiff", ".aif":
		return newAIFFDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%s: %w", ext, ErrUnsupportedFormat)
	}
}

// pending holds converted bytes that did not fit the caller's slice.
type pending struct {
	buf []byte
}

func (p *pending) drain(dst []byte) int {
	n := copy(dst, p.buf)
	p.buf = p.buf[n:]
	return n
}

// hand copies raw into dst and keeps the remainder for the next read.
func (p *pending) hand(dst, raw []byte) int {
	n := copy(dst, raw)
	if n < len(raw) {
		p.buf = append(p.buf[:0], raw[n:]...)
	}
	return n
}

func putSample16(raw []byte, i int, v int) {
	binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(clamp16(v))))
}

func clamp16(v int) int {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

// rescale shifts a sample of the given bit depth to 16 bits.
func rescale(v, bitDepth int) int {
	switch {
	case bitDepth > 16:
		return v >> (bitDepth - 16)
	case bitDepth < 16:
		return v << (16 - bitDepth)
	}
	return v
}

// --- MP3 ---

type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) Length() int64              { return d.dec.Length() }
func (d *mp3Decoder) SampleRate() int            { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int          { return 2 }

// --- WAV and AIFF ---

// pcmBufferReader is satisfied by both wav.Decoder and aiff.Decoder.
type pcmBufferReader interface {
	PCMBuffer(buf *audio.IntBuffer) (int, error)
}

// intPCMDecoder converts go-audio integer buffers to s16le.
type intPCMDecoder struct {
	src        pcmBufferReader
	intBuf     *audio.IntBuffer
	raw        []byte
	pending    pending
	totalBytes int64
	sampleRate int
	channels   int
	bitDepth   int
	unsigned8  bool // 8-bit WAV data is unsigned
}

func newIntPCMDecoder(src pcmBufferReader, format *audio.Format, bitDepth int, frames int64, unsigned8 bool) (*intPCMDecoder, error) {
	if format == nil || format.NumChannels < 1 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("missing PCM format: %w", ErrUnsupportedFormat)
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%d-bit PCM: %w", bitDepth, ErrUnsupportedFormat)
	}
	return &intPCMDecoder{
		src: src,
		intBuf: &audio.IntBuffer{
			Format:         format,
			Data:           make([]int, 4096*format.NumChannels),
			SourceBitDepth: bitDepth,
		},
		totalBytes: frames * int64(format.NumChannels) * 2,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bitDepth,
		unsigned8:  unsigned8,
	}, nil
}

func (d *intPCMDecoder) Read(p []byte) (int, error) {
	if len(d.pending.buf) > 0 {
		return d.pending.drain(p), nil
	}

	n, err := d.src.PCMBuffer(d.intBuf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	if cap(d.raw) < n*2 {
		d.raw = make([]byte, n*2)
	}
	raw := d.raw[:n*2]
	for i, v := range d.intBuf.Data[:n] {
		if d.bitDepth == 8 && d.unsigned8 {
			v -= 128
		}
		putSample16(raw, i, rescale(v, d.bitDepth))
	}
	return d.pending.hand(p, raw), nil
}

func (d *intPCMDecoder) Length() int64     { return d.totalBytes }
func (d *intPCMDecoder) SampleRate() int   { return d.sampleRate }
func (d *intPCMDecoder) ChannelCount() int { return d.channels }

func newWAVDecoder(f *os.File) (*intPCMDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %w", ErrUnsupportedFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	channels := int(dec.NumChans)
	var frames int64
	if bitDepth > 0 && channels > 0 {
		frames = dec.PCMLen() / int64(channels*bitDepth/8)
	}
	return newIntPCMDecoder(dec, dec.Format(), bitDepth, frames, true)
}

func newAIFFDecoder(f *os.File) (*intPCMDecoder, error) {
	dec := aiff.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid AIFF file: %w", ErrUnsupportedFormat)
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("reading AIFF header: %w", err)
	}
	return newIntPCMDecoder(dec, dec.Format(), int(dec.BitDepth), int64(dec.NumSampleFrames), false)
}

// --- FLAC ---

type flacDecoder struct {
	stream     *flac.Stream
	raw        []byte
	pending    pending
	totalBytes int64
	sampleRate int
	channels   int
	bps        int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   channels,
		bps:        int(info.BitsPerSample),
		totalBytes: int64(info.NSamples) * int64(channels) * 2,
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.pending.buf) > 0 {
		return d.pending.drain(p), nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	size := nSamples * d.channels * 2
	if cap(d.raw) < size {
		d.raw = make([]byte, size)
	}
	raw := d.raw[:size]
	for i := range nSamples {
		for ch := range d.channels {
			putSample16(raw, i*d.channels+ch, rescale(int(frame.Subframes[ch].Samples[i]), d.bps))
		}
	}
	return d.pending.hand(p, raw), nil
}

func (d *flacDecoder) Length() int64     { return d.totalBytes }
func (d *flacDecoder) SampleRate() int   { return d.sampleRate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

// --- OGG Vorbis ---

type oggDecoder struct {
	reader     *oggvorbis.Reader
	samples    []float32
	raw        []byte
	pending    pending
	totalBytes int64
	sampleRate int
	channels   int
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	return &oggDecoder{
		reader:     reader,
		sampleRate: reader.SampleRate(),
		channels:   channels,
		totalBytes: reader.Length() * int64(channels) * 2,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.pending.buf) > 0 {
		return d.pending.drain(p), nil
	}

	want := max(len(p)/2, d.channels)
	if cap(d.samples) < want {
		d.samples = make([]float32, want)
	}
	n, err := d.reader.Read(d.samples[:want])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	if cap(d.raw) < n*2 {
		d.raw = make([]byte, n*2)
	}
	raw := d.raw[:n*2]
	for i, s := range d.samples[:n] {
		putSample16(raw, i, int(max(-1, min(1, s))*32767))
	}
	// The next call reports io.EOF once pending data is drained.
	if err == io.EOF {
		err = nil
	}
	return d.pending.hand(p, raw), err
}

func (d *oggDecoder) Length() int64     { return d.totalBytes }
func (d *oggDecoder) SampleRate() int   { return d.sampleRate }
func (d *oggDecoder) ChannelCount() int { return d.channels }
