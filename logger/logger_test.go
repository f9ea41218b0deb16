package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mshiomi/portalauth/logger"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.LevelInfo)

	l.Debug("hidden")
	l.Info("shown-info")
	l.Error("shown-error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("DEBUG message emitted at INFO level")
	}
	if !strings.Contains(out, "shown-info") || !strings.Contains(out, "shown-error") {
		t.Errorf("INFO/ERROR messages missing: %q", out)
	}
}

func TestSetLevel_Runtime(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.LevelError)

	l.Info("before")
	l.SetLevel(logger.LevelDebug)
	l.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Error("INFO emitted at ERROR level")
	}
	if !strings.Contains(out, "after") {
		t.Error("DEBUG missing after SetLevel(LevelDebug)")
	}
}

func TestWithTag_PrefixesMessages(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.LevelInfo).WithTag("flow")

	l.Info("step done")
	if !strings.Contains(buf.String(), "[flow] step done") {
		t.Errorf("tag prefix missing: %q", buf.String())
	}
}

func TestWithTag_SharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := logger.NewWithWriter(&buf, logger.LevelError)
	tagged := root.WithTag("client")

	root.SetLevel(logger.LevelDebug)
	tagged.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("tagged logger did not follow the shared level change")
	}
}

func TestInfof_Formats(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.LevelInfo)
	l.Infof("attempt %d of %d", 1, 3)
	if !strings.Contains(buf.String(), "attempt 1 of 3") {
		t.Errorf("formatted message missing: %q", buf.String())
	}
}
