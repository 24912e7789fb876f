package edge

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func TestBuildSSMLEscapesText(t *testing.T) {
	t.Parallel()

	ssml := buildSSML("a < b & c > d", "en-US-JennyNeural", "")

	if !strings.Contains(ssml, "a &lt; b &amp; c &gt; d") {
		t.Errorf("ssml does not escape markup characters: %s", ssml)
	}
	if strings.Contains(ssml, "a < b") {
		t.Errorf("ssml contains unescaped input: %s", ssml)
	}
}

func TestBuildSSMLDefaults(t *testing.T) {
	t.Parallel()

	ssml := buildSSML("hello", "en-US-JennyNeural", "")

	if !strings.Contains(ssml, "xml:lang='en-US'") {
		t.Errorf("ssml missing default language: %s", ssml)
	}
	if !strings.Contains(ssml, "<voice name='en-US-JennyNeural'>hello</voice>") {
		t.Errorf("ssml missing voice element: %s", ssml)
	}
}

func TestBuildSpeechConfigFraming(t *testing.T) {
	t.Parallel()

	msg := string(buildSpeechConfig())

	head, body, found := strings.Cut(msg, "\r\n\r\n")
	if !found {
		t.Fatalf("message missing header/body separator: %q", msg)
	}
	if messagePath(head) != "speech.config" {
		t.Errorf("Path = %q, want speech.config", messagePath(head))
	}
	if !strings.Contains(body, outputFormat) {
		t.Errorf("body missing output format: %s", body)
	}
}

func TestBuildSSMLMessageFraming(t *testing.T) {
	t.Parallel()

	msg := string(buildSSMLMessage("req-123", "<speak>x</speak>"))

	head, body, found := strings.Cut(msg, "\r\n\r\n")
	if !found {
		t.Fatalf("message missing header/body separator: %q", msg)
	}
	if messagePath(head) != "ssml" {
		t.Errorf("Path = %q, want ssml", messagePath(head))
	}
	if !strings.Contains(head, "X-RequestId:req-123") {
		t.Errorf("header missing request id: %s", head)
	}
	if body != "<speak>x</speak>" {
		t.Errorf("body = %q", body)
	}
}

func TestParseBinaryMessage(t *testing.T) {
	t.Parallel()

	header := "X-RequestId:abc\r\nPath:audio"
	payload := []byte{0xFF, 0xFB, 0x01, 0x02}

	msg := make([]byte, 2+len(header)+len(payload))
	binary.BigEndian.PutUint16(msg[:2], uint16(len(header)))
	copy(msg[2:], header)
	copy(msg[2+len(header):], payload)

	gotHeader, gotPayload, err := parseBinaryMessage(msg)
	if err != nil {
		t.Fatalf("parseBinaryMessage: %v", err)
	}
	if messagePath(gotHeader) != "audio" {
		t.Errorf("Path = %q, want audio", messagePath(gotHeader))
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Errorf("payload = %v, want %v", gotPayload, payload)
	}
}

func TestParseBinaryMessageRejectsTruncated(t *testing.T) {
	t.Parallel()

	if _, _, err := parseBinaryMessage([]byte{0x00}); err == nil {
		t.Error("want error for message shorter than header length field")
	}

	// Header length claims more bytes than present.
	msg := []byte{0x00, 0xFF, 'P', 'a', 't', 'h'}
	if _, _, err := parseBinaryMessage(msg); err == nil {
		t.Error("want error for header length exceeding message size")
	}
}

func TestMessagePath(t *testing.T) {
	t.Parallel()

	header := "X-RequestId:abc\r\nContent-Type:audio/mpeg\r\nPath: turn.end"
	if got := messagePath(header); got != "turn.end" {
		t.Errorf("messagePath = %q, want turn.end", got)
	}
	if got := messagePath("no path header"); got != "" {
		t.Errorf("messagePath = %q, want empty", got)
	}
}
