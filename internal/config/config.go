package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core settings
	OutputDir string `yaml:"output_dir"`
	FontsDir  string `yaml:"fonts_dir"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Caption defaults applied when the track omits style fields
	Captions CaptionConfig `yaml:"captions"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Threads    int    `yaml:"threads"`
	Preset     string `yaml:"preset"`
}

type CaptionConfig struct {
	FontFamily    string  `yaml:"font_family"`
	FontWeight    string  `yaml:"font_weight"`
	FontColor     string  `yaml:"font_color"`
	FontSizeRatio float64 `yaml:"font_size_ratio"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		OutputDir: "./renders",
		FontsDir:  "./fonts",
		FFmpeg: FFmpegConfig{
			BinaryPath: "",
			Threads:    0,
			Preset:     "medium",
		},
		Captions: CaptionConfig{
			FontFamily:    "Montserrat",
			FontWeight:    "700",
			FontColor:     "#FFFFFF",
			FontSizeRatio: 0.25,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./captionburn.yaml",
		"./captionburn.yml",
		filepath.Join(os.Getenv("HOME"), ".captionburn", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
