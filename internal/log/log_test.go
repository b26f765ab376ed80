package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"loud":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetOutput_ComponentField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}, "error") })

	Registry.Info().Str("chain", "osmosis").Msg("resolved")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["component"] != "registry" {
		t.Errorf("component = %v, want registry", entry["component"])
	}
	if entry["chain"] != "osmosis" {
		t.Errorf("chain = %v, want osmosis", entry["chain"])
	}
}

func TestSetOutput_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}, "error") })

	Notes.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line written at warn level: %q", buf.String())
	}
	acct := WithAccount("znam1abc")
	acct.Warn().Msg("kept")
	if !bytes.Contains(buf.Bytes(), []byte(`"account":"znam1abc"`)) {
		t.Errorf("missing account field: %q", buf.String())
	}
}

func TestBenchmark(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}, "error") })

	done := Benchmark("registry.LoadFile")
	done()

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["operation"] != "registry.LoadFile" {
		t.Errorf("operation = %v", entry["operation"])
	}
	if _, ok := entry["duration"]; !ok {
		t.Error("missing duration field")
	}
}

func TestComponentLoggers_FollowSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info")
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}, "error") })

	for _, l := range []struct {
		name string
		emit func()
	}{
		{"node", func() { Node.Info().Msg("x") }},
		{"notes", func() { Notes.Info().Msg("x") }},
		{"rpc", func() { RPC.Info().Msg("x") }},
		{"storage", func() { Storage.Info().Msg("x") }},
	} {
		buf.Reset()
		l.emit()
		if !bytes.Contains(buf.Bytes(), []byte(`"component":"`+l.name+`"`)) {
			t.Errorf("%s logger wrote %q", l.name, buf.String())
		}
	}
}
