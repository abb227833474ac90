package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Room   RoomConfig
	Audio  AudioConfig
	CORS   CORSConfig
}

// Load reads configuration from environment variables. Missing credentials
// are a startup error; there is no silent defaulting for secrets.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	aiCfg, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	roomCfg, err := loadRoomConfig()
	if err != nil {
		return nil, err
	}

	audio, err := loadAudioConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     aiCfg,
		Room:   roomCfg,
		Audio:  audio,
		CORS:   loadCORSConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the Gemini backend.
type AIConfig struct {
	APIKey string
	Model  string
}

func loadAIConfig() (AIConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return AIConfig{}, fmt.Errorf("GEMINI_API_KEY is required")
	}

	return AIConfig{
		APIKey: apiKey,
		Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
	}, nil
}

// RoomConfig describes the media-room transport and its token signing.
type RoomConfig struct {
	URL        string
	APIKey     string
	APISecret  string
	RoomPrefix string
	TokenTTL   time.Duration
}

func loadRoomConfig() (RoomConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("LIVEKIT_API_KEY"))
	apiSecret := strings.TrimSpace(os.Getenv("LIVEKIT_API_SECRET"))
	if apiKey == "" || apiSecret == "" {
		return RoomConfig{}, fmt.Errorf("LIVEKIT_API_KEY and LIVEKIT_API_SECRET are required")
	}

	ttlSeconds := 3600
	if override, err := parseOptionalIntEnv("TOKEN_TTL_SECONDS"); err != nil {
		return RoomConfig{}, err
	} else if override != nil {
		if *override <= 0 {
			return RoomConfig{}, fmt.Errorf("TOKEN_TTL_SECONDS must be positive")
		}
		ttlSeconds = *override
	}

	return RoomConfig{
		URL:        getEnvOrDefault("LIVEKIT_URL", "ws://localhost:7880"),
		APIKey:     apiKey,
		APISecret:  apiSecret,
		RoomPrefix: getEnvOrDefault("LIVEKIT_ROOM_PREFIX", "voice-ai"),
		TokenTTL:   time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// AudioConfig describes the default output audio envelope.
type AudioConfig struct {
	SampleRate int
	Channels   int
	Format     string
}

func loadAudioConfig() (AudioConfig, error) {
	sampleRate := 16000
	if override, err := parseOptionalIntEnv("AUDIO_SAMPLE_RATE"); err != nil {
		return AudioConfig{}, err
	} else if override != nil {
		sampleRate = *override
	}

	channels := 1
	if override, err := parseOptionalIntEnv("AUDIO_CHANNELS"); err != nil {
		return AudioConfig{}, err
	} else if override != nil {
		channels = *override
	}

	return AudioConfig{
		SampleRate: sampleRate,
		Channels:   channels,
		Format:     getEnvOrDefault("AUDIO_FORMAT", "wav"),
	}, nil
}

// CORSConfig lists the origins allowed on the REST surface.
type CORSConfig struct {
	Origins []string
}

func loadCORSConfig() CORSConfig {
	raw := getEnvOrDefault("CORS_ORIGINS", "*")
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return CORSConfig{Origins: origins}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
