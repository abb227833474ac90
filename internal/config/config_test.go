package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("LIVEKIT_API_KEY", "test-lk-key")
	t.Setenv("LIVEKIT_API_SECRET", "test-lk-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	for _, key := range []string{"PORT", "GEMINI_MODEL", "LIVEKIT_URL", "LIVEKIT_ROOM_PREFIX",
		"TOKEN_TTL_SECONDS", "AUDIO_SAMPLE_RATE", "AUDIO_CHANNELS", "AUDIO_FORMAT", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.AI.Model != "gemini-1.5-flash" {
		t.Errorf("Model = %q", cfg.AI.Model)
	}
	if cfg.Room.URL != "ws://localhost:7880" || cfg.Room.RoomPrefix != "voice-ai" {
		t.Errorf("unexpected room config: %+v", cfg.Room)
	}
	if cfg.Room.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.Room.TokenTTL)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.Channels != 1 || cfg.Audio.Format != "wav" {
		t.Errorf("unexpected audio config: %+v", cfg.Audio)
	}
	if len(cfg.CORS.Origins) != 1 || cfg.CORS.Origins[0] != "*" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORS.Origins)
	}
}

func TestLoadMissingGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LIVEKIT_API_KEY", "k")
	t.Setenv("LIVEKIT_API_SECRET", "s")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected GEMINI_API_KEY error, got %v", err)
	}
}

func TestLoadMissingRoomCredentials(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("LIVEKIT_API_KEY", "k")
	t.Setenv("LIVEKIT_API_SECRET", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "LIVEKIT_API_SECRET") {
		t.Fatalf("expected credential error, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("TOKEN_TTL_SECONDS", "600")
	t.Setenv("AUDIO_SAMPLE_RATE", "48000")
	t.Setenv("AUDIO_CHANNELS", "2")
	t.Setenv("AUDIO_FORMAT", "pcm")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", cfg.AI.Model)
	}
	if cfg.Room.TokenTTL != 10*time.Minute {
		t.Errorf("TokenTTL = %v", cfg.Room.TokenTTL)
	}
	if cfg.Audio.SampleRate != 48000 || cfg.Audio.Channels != 2 || cfg.Audio.Format != "pcm" {
		t.Errorf("unexpected audio config: %+v", cfg.Audio)
	}
	if len(cfg.CORS.Origins) != 2 || cfg.CORS.Origins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORS.Origins)
	}
}

func TestLoadPrecolonizedPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadBadTTL(t *testing.T) {
	setRequiredEnv(t)

	for _, ttl := range []string{"0", "-5", "abc"} {
		t.Setenv("TOKEN_TTL_SECONDS", ttl)
		if _, err := Load(); err == nil {
			t.Fatalf("TOKEN_TTL_SECONDS=%q should fail", ttl)
		}
	}
}
