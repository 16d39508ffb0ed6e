// Package ffmpeg, harici ffmpeg/ffprobe araçlarını sarar: ikili
// çözümleme, medya sondajı, anahtar kare analizi ve kesme işlemleri.
// Kod çözme/kodlama mantığı burada yoktur; her şey harici sürece
// devredilir.
package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Tools çözümlenmiş ffmpeg/ffprobe yollarını taşır.
type Tools struct {
	FFmpeg  string
	FFprobe string
	// BinDir kullanıcı tarafından verilen klasördür; boşsa PATH ve
	// bilinen yollar kullanılmıştır.
	BinDir string
}

// ToolStatus tek bir aracın kontrol sonucunu temsil eder.
type ToolStatus struct {
	Name      string
	Available bool
	Path      string
	Version   string
}

func exeName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// findBinary verilen aracı sırasıyla açık klasörde, çevre
// değişkenlerinde, bilinen kurulum yollarında ve PATH'te arar.
func findBinary(name, binDir string) (string, error) {
	if dir := strings.TrimSpace(binDir); dir != "" {
		p := filepath.Join(dir, exeName(name))
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("%s verilen klasörde bulunamadı: %s", name, dir)
	}

	// 1. Çevre değişkenlerinden oku
	for _, env := range []string{"CLIPWAVE_FFMPEG_BIN_DIR", "FFMPEG_BIN_DIR"} {
		if dir := os.Getenv(env); dir != "" {
			p := filepath.Join(dir, exeName(name))
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}

	// 2. İşletim sistemine göre bilinen yollar
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/opt/homebrew/bin/" + name,
			"/usr/local/bin/" + name,
		}
	case "linux":
		candidates = []string{
			"/usr/bin/" + name,
			"/usr/local/bin/" + name,
		}
	case "windows":
		candidates = []string{
			`C:\ffmpeg\bin\` + name + `.exe`,
			`C:\Program Files\ffmpeg\bin\` + name + `.exe`,
		}
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	// 3. PATH'te ara
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}

	return "", fmt.Errorf("%s bulunamadı. Lütfen yükleyin:\n"+
		"  macOS:   brew install ffmpeg\n"+
		"  Linux:   sudo apt install ffmpeg\n"+
		"  Windows: https://ffmpeg.org/download.html\n"+
		"  Veya FFMPEG_BIN_DIR çevre değişkenini ayarlayın", name)
}

// Resolve ffmpeg ve ffprobe yollarını çözer. Bulunamayan araç için
// çıplak komut adı bırakılır; kullanılabilirlik Check ile doğrulanır.
func Resolve(binDir string) Tools {
	t := Tools{FFmpeg: "ffmpeg", FFprobe: "ffprobe", BinDir: strings.TrimSpace(binDir)}
	if p, err := findBinary("ffmpeg", binDir); err == nil {
		t.FFmpeg = p
	}
	if p, err := findBinary("ffprobe", binDir); err == nil {
		t.FFprobe = p
	}
	return t
}

// ValidateBinDir kullanıcı klasörünü doğrular; boş klasör geçerli
// sayılır (PATH'e düşülür).
func ValidateBinDir(binDir string) error {
	dir := strings.TrimSpace(binDir)
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("FFmpeg klasörü bulunamadı: %s", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("FFmpeg klasörü bir dizin değil: %s", dir)
	}
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if _, err := os.Stat(filepath.Join(dir, exeName(name))); err != nil {
			return fmt.Errorf("FFmpeg klasöründe %s yok: %s", exeName(name), dir)
		}
	}
	return nil
}

// Available iki aracın da kullanılabilir olduğunu söyler.
func (t Tools) Available() bool {
	for _, s := range t.Check() {
		if !s.Available {
			return false
		}
	}
	return true
}

// Check araçları -version ile yoklar ve durumlarını döner.
func (t Tools) Check() []ToolStatus {
	statuses := []ToolStatus{}
	for _, pair := range []struct {
		name string
		path string
	}{
		{"FFmpeg", t.FFmpeg},
		{"FFprobe", t.FFprobe},
	} {
		s := ToolStatus{Name: pair.name, Path: pair.path}
		if out, err := exec.Command(pair.path, "-version").Output(); err == nil {
			s.Available = true
			lines := strings.Split(string(out), "\n")
			if len(lines) > 0 {
				s.Version = strings.TrimSpace(lines[0])
			}
		}
		statuses = append(statuses, s)
	}
	return statuses
}
