package config

import (
	"testing"

	"github.com/npillmayer/schuko/tracing"

	"github.com/kookyleo/paranoid-space/width"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PARANOID_EAST_ASIAN", "")
	t.Setenv("PARANOID_LOG_LEVEL", "")
	t.Setenv("PARANOID_COLOR", "")
	t.Setenv("PARANOID_JOBS", "")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.EastAsian != "narrow" || cfg.LogLevel != "error" || cfg.Color != "auto" || cfg.Jobs < 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if ctx, _ := cfg.WidthContext(); ctx != width.LatinContext {
		t.Errorf("expected Latin context by default")
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("PARANOID_EAST_ASIAN", "Wide")
	t.Setenv("PARANOID_LOG_LEVEL", "debug")
	t.Setenv("PARANOID_COLOR", "never")
	t.Setenv("PARANOID_JOBS", "3")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if ctx, _ := cfg.WidthContext(); !ctx.IsEastAsian() {
		t.Errorf("expected East Asian context")
	}
	if level, _ := cfg.TraceLevel(); level != tracing.LevelDebug {
		t.Errorf("expected debug level, is %v", level)
	}
	if cfg.Color != "never" || cfg.Jobs != 3 {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestInvalid(t *testing.T) {
	for i, x := range []struct {
		key, value string
	}{
		{"PARANOID_EAST_ASIAN", "sideways"},
		{"PARANOID_LOG_LEVEL", "loud"},
		{"PARANOID_COLOR", "pink"},
		{"PARANOID_JOBS", "0"},
		{"PARANOID_JOBS", "many"},
	} {
		t.Setenv("PARANOID_EAST_ASIAN", "")
		t.Setenv("PARANOID_LOG_LEVEL", "")
		t.Setenv("PARANOID_COLOR", "")
		t.Setenv("PARANOID_JOBS", "")
		t.Setenv(x.key, x.value)
		if _, err := Load(); err == nil {
			t.Errorf("test #%d: expected %s=%s to be rejected", i, x.key, x.value)
		}
	}
}
