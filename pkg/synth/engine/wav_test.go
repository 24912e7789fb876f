package engine_test

import (
	"bytes"
	"testing"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
)

func TestEncodeWAVRoundTrip(t *testing.T) {
	t.Parallel()

	pcm := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	wav, err := engine.EncodeWAV(pcm, 24000, 1, 16)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}

	info, err := engine.ParseWAV(wav)
	if err != nil {
		t.Fatalf("ParseWAV: %v", err)
	}

	if info.SampleRate != 24000 {
		t.Errorf("SampleRate = %d, want 24000", info.SampleRate)
	}
	if info.Channels != 1 {
		t.Errorf("Channels = %d, want 1", info.Channels)
	}
	if got := wav[info.DataOffset : info.DataOffset+info.DataLen]; !bytes.Equal(got, pcm) {
		t.Errorf("data = %v, want %v", got, pcm)
	}
}

func TestEncodeWAVHeaderFields(t *testing.T) {
	t.Parallel()

	wav, err := engine.EncodeWAV(make([]byte, 100), 22050, 2, 16)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}

	if got := string(wav[0:4]); got != "RIFF" {
		t.Errorf("magic = %q, want RIFF", got)
	}
	if got := string(wav[8:12]); got != "WAVE" {
		t.Errorf("format = %q, want WAVE", got)
	}
	if len(wav) != 144 {
		t.Errorf("len = %d, want 144 (44-byte header + 100 bytes PCM)", len(wav))
	}
}

func TestEncodeWAVRejectsBadParams(t *testing.T) {
	t.Parallel()

	if _, err := engine.EncodeWAV(nil, 0, 1, 16); err == nil {
		t.Error("want error for zero sample rate")
	}
	if _, err := engine.EncodeWAV(nil, 24000, 0, 16); err == nil {
		t.Error("want error for zero channels")
	}
	if _, err := engine.EncodeWAV(nil, 24000, 1, 24); err == nil {
		t.Error("want error for 24-bit samples")
	}
}

func TestParseWAVRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{
		nil,
		[]byte("short"),
		[]byte("RIFFxxxxJUNK0000000000000000"),
	} {
		if _, err := engine.ParseWAV(data); err == nil {
			t.Errorf("ParseWAV(%q): want error", data)
		}
	}
}
