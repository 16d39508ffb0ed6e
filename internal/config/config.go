package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AppConfig uygulama yapılandırmasını tutar
type AppConfig struct {
	// FFmpegBinDir ffmpeg/ffprobe ikililerinin klasörü; boşsa PATH kullanılır
	FFmpegBinDir string `json:"ffmpeg_bin_dir,omitempty"`
	LastOpenDir  string `json:"last_open_dir,omitempty"`
	// DefaultMode "lossless" ya da "exact"; boşsa lossless varsayılır
	DefaultMode string `json:"default_mode,omitempty"`
	// DefaultOutputDir boşsa kesimler girdinin yanına yazılır
	DefaultOutputDir string `json:"default_output_dir,omitempty"`
	Verbose          bool   `json:"verbose,omitempty"`
}

// configDir yapılandırma dizinini döner (~/.clipwave)
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".clipwave"), nil
}

// configPath yapılandırma dosya yolunu döner
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// HistoryDBPath kesim günlüğü veritabanının yolunu döner
func HistoryDBPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LoadConfig yapılandırmayı dosyadan okur
func LoadConfig() (*AppConfig, error) {
	path, err := configPath()
	if err != nil {
		return &AppConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Dosya yoksa varsayılan config döndür
		return &AppConfig{}, nil
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return &AppConfig{}, nil
	}

	return &cfg, nil
}

// SaveConfig yapılandırmayı dosyaya kaydeder
func SaveConfig(cfg *AppConfig) error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(dir, "config.json")
	return os.WriteFile(path, data, 0644)
}

// GetFFmpegBinDir kayıtlı FFmpeg klasörünü döner; çevre değişkeni
// kayıtlı değeri ezer.
func GetFFmpegBinDir() string {
	if dir := os.Getenv("CLIPWAVE_FFMPEG_BIN_DIR"); dir != "" {
		return dir
	}
	cfg, _ := LoadConfig()
	return cfg.FFmpegBinDir
}

// SetFFmpegBinDir FFmpeg klasörünü kaydeder
func SetFFmpegBinDir(dir string) error {
	cfg, _ := LoadConfig()
	cfg.FFmpegBinDir = dir
	return SaveConfig(cfg)
}

// GetDefaultOutputDir varsayılan çıktı dizinini döner; boşsa kesim
// girdinin yanına yazılır.
func GetDefaultOutputDir() string {
	cfg, _ := LoadConfig()
	return cfg.DefaultOutputDir
}

// SetDefaultOutputDir varsayılan çıktı dizinini kaydeder
func SetDefaultOutputDir(dir string) error {
	cfg, _ := LoadConfig()
	cfg.DefaultOutputDir = dir
	return SaveConfig(cfg)
}

// GetLastOpenDir son gezilen dizini döner
func GetLastOpenDir() string {
	cfg, _ := LoadConfig()
	return cfg.LastOpenDir
}

// SetLastOpenDir son gezilen dizini kaydeder
func SetLastOpenDir(dir string) error {
	cfg, _ := LoadConfig()
	cfg.LastOpenDir = dir
	return SaveConfig(cfg)
}
