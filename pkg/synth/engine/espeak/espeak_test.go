package espeak

import (
	"reflect"
	"testing"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
)

func TestBuildArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts engine.Options
		want []string
	}{
		{
			name: "defaults",
			opts: engine.Options{},
			want: []string{"-w", "/tmp/out.wav", "-v", "en", "hello"},
		},
		{
			name: "language selects voice",
			opts: engine.Options{Language: "de"},
			want: []string{"-w", "/tmp/out.wav", "-v", "de", "hello"},
		},
		{
			name: "voice wins over language",
			opts: engine.Options{Language: "de", Voice: "en-us"},
			want: []string{"-w", "/tmp/out.wav", "-v", "en-us", "hello"},
		},
		{
			name: "rate",
			opts: engine.Options{Rate: 150},
			want: []string{"-w", "/tmp/out.wav", "-v", "en", "-s", "150", "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildArgs("/tmp/out.wav", "hello", tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildArgs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveMissingBinary(t *testing.T) {
	t.Parallel()

	e := New("definitely-not-a-real-espeak-binary")
	if _, err := e.resolve(); err == nil {
		t.Error("resolve: want error for missing binary")
	}
}
