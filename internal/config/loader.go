package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// validator is implemented by every loadable config.
type validator interface {
	Validate() error
}

// LoadGame loads the configuration for an entity game by id.
// Search order: customPath -> ~/.bubblepop/configs/<id>.yaml -> ./configs/<id>.yaml -> embedded default
func LoadGame(gameID, customPath string) (GameConfig, error) {
	var (
		embedded []byte
		fallback GameConfig
	)
	switch gameID {
	case "bubblepop":
		embedded, fallback = defaultBubblepopYAML, DefaultBubblepopConfig()
	case "dodger":
		embedded, fallback = defaultDodgerYAML, DefaultDodgerConfig()
	default:
		if customPath == "" {
			return GameConfig{}, fmt.Errorf("config: no defaults for game %q", gameID)
		}
		fallback = DefaultBubblepopConfig()
	}
	return load(gameID+".yaml", customPath, embedded, fallback)
}

// LoadSnake loads snake configuration.
// Search order: customPath -> ~/.bubblepop/configs/snake.yaml -> ./configs/snake.yaml -> embedded default
func LoadSnake(customPath string) (SnakeConfig, error) {
	return load("snake.yaml", customPath, defaultSnakeYAML, DefaultSnakeConfig())
}

// LoadReporter loads the event reporter settings. There is no embedded
// document; missing files fall back to DefaultReporterConfig.
// Search order: customPath -> ~/.bubblepop/configs/reporter.yaml -> ./configs/reporter.yaml
func LoadReporter(customPath string) (ReporterConfig, error) {
	return load("reporter.yaml", customPath, nil, DefaultReporterConfig())
}

// load decodes the first readable, valid YAML document in the search order
// over a copy of fallback, so omitted keys keep their default values.
func load[T validator](filename, customPath string, embedded []byte, fallback T) (T, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return fallback, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decode(data, fallback)
		if err != nil {
			return fallback, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := make([]string, 0, 2)
	if p := userConfigPath(filename); p != "" {
		candidates = append(candidates, p)
	}
	candidates = append(candidates, filepath.Join("configs", filename))

	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if cfg, err := decode(data, fallback); err == nil {
			return cfg, nil
		}
	}

	if len(embedded) > 0 {
		if cfg, err := decode(embedded, fallback); err == nil {
			return cfg, nil
		}
	}
	return fallback, nil // Fallback to hardcoded if embed fails
}

func decode[T validator](data []byte, base T) (T, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, err
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bubblepop", "configs", filename)
}
