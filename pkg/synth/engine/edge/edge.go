// Package edge provides an online TTS engine backed by the Microsoft Edge
// read-aloud WebSocket service. It needs no credentials, offers neural
// voices, and returns MP3.
//
// The service is conversational: the client sends a speech.config message
// and an SSML message, then the server streams text status messages
// (turn.start, audio.metadata, turn.end) and binary audio frames. A reader
// goroutine collects the audio frames until turn.end; Synthesize blocks
// until that goroutine finishes, so callers see an ordinary synchronous
// call.
package edge

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
)

const (
	// Name is the registry key for this engine.
	Name = "edge"

	// DefaultVoice is used when neither the engine nor the request names one.
	DefaultVoice = "en-US-JennyNeural"

	wsEndpointFmt = "wss://speech.platform.bing.com/consumer/speech/synthesize/" +
		"readaloud/edge/v1?TrustedClientToken=%s&ConnectionId=%s"

	// trustedClientToken is the fixed token the Edge browser itself sends.
	trustedClientToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"

	outputFormat = "audio-24khz-48kbitrate-mono-mp3"

	// maxFrameSize bounds a single websocket message; audio frames run to a
	// few hundred KB.
	maxFrameSize = 1 << 22
)

var _ engine.Engine = (*Engine)(nil)

// Option is a functional option for Engine.
type Option func(*Engine)

// WithVoice sets the default voice for this engine instance.
func WithVoice(voice string) Option {
	return func(e *Engine) {
		e.voice = voice
	}
}

// WithEndpoint overrides the WebSocket endpoint URL. Used by tests.
func WithEndpoint(url string) Option {
	return func(e *Engine) {
		e.endpoint = url
	}
}

// Engine implements engine.Engine against the Edge read-aloud service.
type Engine struct {
	voice    string
	endpoint string
}

// New returns an edge engine.
func New(opts ...Option) *Engine {
	e := &Engine{voice: DefaultVoice}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return Name }

// Available implements engine.Engine. The engine is a pure WebSocket client
// with no local prerequisites; connection failures surface at synthesis
// time.
func (e *Engine) Available(context.Context) error { return nil }

// Synthesize implements engine.Engine. Rate is not supported and ignored;
// Language is carried in the SSML envelope.
func (e *Engine) Synthesize(ctx context.Context, text string, opts engine.Options) (*engine.Audio, error) {
	voice := opts.Voice
	if voice == "" {
		voice = e.voice
	}
	if voice == "" {
		voice = DefaultVoice
	}

	wsURL := e.endpoint
	if wsURL == "" {
		wsURL = fmt.Sprintf(wsEndpointFmt, trustedClientToken, randomHex(16))
	}

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("edge: dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")
	conn.SetReadLimit(maxFrameSize)

	if err := conn.Write(ctx, websocket.MessageText, buildSpeechConfig()); err != nil {
		return nil, fmt.Errorf("edge: send speech.config: %w", err)
	}
	ssmlMsg := buildSSMLMessage(randomHex(16), buildSSML(text, voice, opts.Language))
	if err := conn.Write(ctx, websocket.MessageText, ssmlMsg); err != nil {
		return nil, fmt.Errorf("edge: send ssml: %w", err)
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)

	// Reader goroutine: drain frames until turn.end, then hand the collected
	// MP3 back. Joined before Synthesize returns.
	go func() {
		var mp3 []byte
		for {
			typ, msg, err := conn.Read(ctx)
			if err != nil {
				done <- result{err: fmt.Errorf("edge: read: %w", err)}
				return
			}
			switch typ {
			case websocket.MessageText:
				if messagePath(string(msg)) == "turn.end" {
					done <- result{data: mp3}
					return
				}
			case websocket.MessageBinary:
				header, payload, err := parseBinaryMessage(msg)
				if err != nil {
					done <- result{err: err}
					return
				}
				if messagePath(header) == "audio" {
					mp3 = append(mp3, payload...)
				}
			}
		}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if len(r.data) == 0 {
			return nil, errors.New("edge: no audio frames before turn.end")
		}
		return &engine.Audio{Data: r.data, Extension: "mp3"}, nil
	case <-ctx.Done():
		conn.Close(websocket.StatusNormalClosure, "cancelled")
		<-done
		return nil, ctx.Err()
	}
}

// buildSpeechConfig frames the speech.config message selecting the output
// format.
func buildSpeechConfig() []byte {
	const config = `{"context":{"synthesis":{"audio":{"metadataoptions":` +
		`{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},` +
		`"outputFormat":"` + outputFormat + `"}}}}`
	return []byte("X-Timestamp:" + timestamp() + "\r\n" +
		"Content-Type:application/json; charset=utf-8\r\n" +
		"Path:speech.config\r\n\r\n" + config)
}

// buildSSMLMessage frames an SSML payload with the request headers the
// service expects.
func buildSSMLMessage(requestID, ssml string) []byte {
	return []byte("X-RequestId:" + requestID + "\r\n" +
		"Content-Type:application/ssml+xml\r\n" +
		"X-Timestamp:" + timestamp() + "\r\n" +
		"Path:ssml\r\n\r\n" + ssml)
}

// buildSSML wraps text in the minimal SSML envelope the service accepts.
func buildSSML(text, voice, lang string) string {
	if lang == "" {
		lang = "en-US"
	}
	return "<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='" + lang + "'>" +
		"<voice name='" + voice + "'>" + escapeSSML(text) + "</voice></speak>"
}

var ssmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeSSML(text string) string {
	return ssmlEscaper.Replace(text)
}

// parseBinaryMessage splits a binary frame into its text header block and
// audio payload. The first two bytes carry the big-endian header length.
func parseBinaryMessage(msg []byte) (header string, payload []byte, err error) {
	if len(msg) < 2 {
		return "", nil, errors.New("edge: binary message too short for header length")
	}
	hlen := int(binary.BigEndian.Uint16(msg[:2]))
	if 2+hlen > len(msg) {
		return "", nil, fmt.Errorf("edge: binary header length %d exceeds message size %d", hlen, len(msg))
	}
	return string(msg[2 : 2+hlen]), msg[2+hlen:], nil
}

// messagePath extracts the Path: header value from a message header block.
func messagePath(header string) string {
	for _, line := range strings.Split(header, "\r\n") {
		if value, ok := strings.CutPrefix(line, "Path:"); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func timestamp() string {
	return time.Now().UTC().Format("Mon Jan 2 2006 15:04:05") + " GMT+0000 (Coordinated Universal Time)"
}

func randomHex(nBytes int) string {
	b := make([]byte, nBytes)
	rand.Read(b)
	return hex.EncodeToString(b)
}
