package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}

	if logger.caller {
		t.Error("expected caller disabled by default")
	}

	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelDebug))
	logger.Debug("debug message")

	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged at debug level")
	}

	buf.Reset()

	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Errorf("info message logged at error level: %q", buf.String())
	}

	logger.Error("error message")

	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at error level")
	}
}

func TestLogger_Trace_BelowDebug(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithLevel(LevelDebug)).Trace("hidden")

	if buf.Len() > 0 {
		t.Errorf("trace logged at debug level: %q", buf.String())
	}

	Make(&buf, WithLevel(LevelTrace), WithPretty(false)).Trace("shown")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected level=TRACE, got %q", buf.String())
	}
}

func TestLogger_Make_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithFormat(FormatJSON)).Info("message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("caller file missing: %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithCaller(false), WithFormat(FormatJSON)).Info("message")

	if strings.Contains(buf.String(), "source") {
		t.Errorf("source included when disabled: %s", buf.String())
	}
}

func TestLogger_Make_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatJSON)).Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}

		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}

		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}

		if result["level"] != "INFO" {
			t.Errorf("expected level=INFO, got %v", result["level"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatText), WithPretty(false)).
			Info("test message", slog.String("key", "value"))

		if !strings.Contains(buf.String(), "key=value") {
			t.Errorf("key=value not found in %q", buf.String())
		}
	})
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON)).With(slog.String("source", "a.xml"))
	logger.Info("parsed")

	if !strings.Contains(buf.String(), `"source":"a.xml"`) {
		t.Errorf("attribute missing: %s", buf.String())
	}
}

func TestLogger_Wrap_KeepsConfiguration(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelWarn), WithFormat(FormatJSON)).
		Wrap(WithLevel(LevelDebug))

	if logger.Format() != FormatJSON {
		t.Errorf("format lost by Wrap: %v", logger.Format())
	}

	logger.Debug("kept")

	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("wrapped level not applied: %q", buf.String())
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var logger Logger

	logger.Info("nothing")
	logger.TraceContext(context.Background(), "nothing")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger level = %v", logger.Level())
	}

	if got := logger.With(slog.Int("n", 1)); got.Logger != nil {
		t.Error("With on zero logger should stay zero")
	}

	var buf bytes.Buffer

	logger = logger.Wrap(WithOutput(&buf))
	logger.Info("now visible")

	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("Wrap of zero logger did not produce a usable logger")
	}
}

type diagnostic struct{}

func (diagnostic) Error() string { return "bad thing" }

func (diagnostic) LogValue() slog.Value {
	return slog.GroupValue(slog.String("pos", "a.xml:3:7"), slog.String("path", "ui/title"))
}

func TestLogger_LogValuer_Expanded(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf).Error("compile failed", slog.Any("error", diagnostic{}))

	out := buf.String()
	for _, want := range []string{"error.pos=a.xml:3:7", "error.path=ui/title"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON))

	var wg sync.WaitGroup

	for i := range 32 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			logger.Info("message", slog.Int("n", i))
		}()
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 32 {
		t.Errorf("expected 32 lines, got %d", n)
	}
}

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	defaultLog = Make(&buf, WithLevel(LevelDebug), WithFormat(FormatJSON))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		name  string
		level string
	}{
		{Debug, "Debug", "DEBUG"},
		{Info, "Info", "INFO"},
		{Warn, "Warn", "WARN"},
		{Error, "Error", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.level+`"`) {
				t.Errorf("expected level %s in %s", tt.level, out)
			}

			if !strings.Contains(out, `"key":"value"`) {
				t.Errorf("expected attribute in %s", out)
			}
		})
	}
}

func TestPackage_Config_UpdatesDefault(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelError))
	Warn("hidden")
	ErrorContext(context.Background(), "shown", slog.Any("error", errors.New("boom")))

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output %q", buf.String())
	}

	if Default().Level() != LevelError {
		t.Errorf("Default().Level() = %v", Default().Level())
	}
}
