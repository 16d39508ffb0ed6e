package ffmpeg

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ========================================
// Kesme (ffmpeg)
// ========================================

// CutMode desteklenen iki kesim türü.
type CutMode string

const (
	// ModeLossless akışları yeniden kodlamadan kopyalar; başlangıç
	// en yakın önceki anahtar kareye yapışır.
	ModeLossless CutMode = "lossless"
	// ModeExact kare hassasiyeti için yeniden kodlar.
	ModeExact CutMode = "exact"
)

// ValidMode tanınan bir kip olup olmadığını söyler.
func ValidMode(mode CutMode) bool {
	return mode == ModeLossless || mode == ModeExact
}

// CutRequest tek bir kesim isteğinin doğrulanmış parametreleri.
type CutRequest struct {
	InputPath  string
	InText     string // dosya adında kullanılan ham metin
	OutText    string
	InSeconds  float64
	OutSeconds float64
	Mode       CutMode
	// AudioOrder ses akışları içindeki 0 tabanlı sıradır (`0:a:{order}`);
	// negatif değer ses akışı yok (-an) demektir.
	AudioOrder int
	// SubtitleIndex global ffprobe akış indeksidir; negatif değer
	// altyazı eşlenmez demektir.
	SubtitleIndex int
	// OutputDir boş değilse çıktı girdinin yanına değil bu dizine yazılır.
	OutputDir string
	// LogCommand nil değilse çalıştırılacak komut satırıyla çağrılır
	// (verbose çıktı için).
	LogCommand func(name string, args []string)
}

// CutResult başarılı bir kesimin özeti.
type CutResult struct {
	OutputPath        string
	RequestedDuration float64
	ActualDuration    float64
	HasActual         bool
	// DurationWarning, çıktı süresi istenenden belirgin saparsa dolar.
	DurationWarning string
}

// minOutputBytes altındaki çıktılar bozuk sayılır ve silinir.
const minOutputBytes = 10_000

// timeForFilename zaman metnini dosya adına uygun hale getirir.
func timeForFilename(text string) string {
	return strings.ReplaceAll(text, ":", "h")
}

// BuildOutputPath girdinin yanına `{ad}_clip_{kip}_{in}_{out}.{uzantı}`
// biçiminde çıktı yolu üretir; mevcut dosyalar ` (n)` ile numaralanır.
func BuildOutputPath(inputPath string, mode CutMode, inText, outText string) (string, error) {
	parent := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		return "", fmt.Errorf("girdi dosya adı çözümlenemedi: %s", inputPath)
	}
	if ext == "" {
		ext = ".mp4"
	}

	name := fmt.Sprintf("%s_clip_%s_%s_%s%s", stem, mode, timeForFilename(inText), timeForFilename(outText), ext)
	candidate := filepath.Join(parent, name)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate, nil
	}

	numberedStem := strings.TrimSuffix(name, ext)
	for i := 1; i <= 999; i++ {
		candidate = filepath.Join(parent, fmt.Sprintf("%s (%d)%s", numberedStem, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			break
		}
	}
	return candidate, nil
}

// BuildCutArgs ffmpeg argüman listesini kurar. Saf fonksiyondur;
// komut çalıştırmadan sınanabilir.
func BuildCutArgs(req CutRequest, outputPath string, rotationDegrees int) []string {
	inArg := strconv.FormatFloat(req.InSeconds, 'f', 6, 64)
	durArg := strconv.FormatFloat(req.OutSeconds-req.InSeconds, 'f', 6, 64)
	rotationFilter := rotationFilterFor(rotationDegrees)

	var args []string
	if req.Mode == ModeLossless {
		// -ss'in -i'den ÖNCE gelmesi demuxer seviyesinde anahtar kare
		// aramayı sağlar; -t süresi gerçek çıktı başlangıcından sayar.
		args = append(args,
			"-v", "error", "-progress", "pipe:1",
			"-ss", inArg,
			"-i", req.InputPath,
			"-t", durArg,
		)
	} else {
		args = append(args, "-v", "error", "-progress", "pipe:1", "-accurate_seek", "-ss", inArg)
		if rotationFilter != "" {
			args = append(args, "-noautorotate")
		}
		args = append(args, "-i", req.InputPath, "-t", durArg)
	}

	args = append(args, "-map", "0:v:0")

	if req.AudioOrder < 0 {
		args = append(args, "-an")
	} else {
		args = append(args, "-map", fmt.Sprintf("0:a:%d", req.AudioOrder))
	}

	// Altyazı paketleri kesim sınırını aşıp çıktı süresini uzatabilir;
	// lossless kipte altyazı hiç eşlenmez.
	if req.SubtitleIndex >= 0 && req.Mode != ModeLossless {
		args = append(args, "-map", fmt.Sprintf("0:%d", req.SubtitleIndex))
	}

	if req.Mode == ModeLossless {
		args = append(args, "-c", "copy")
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(outputPath), "."))
		if ext == "mp4" || ext == "m4v" || ext == "mov" {
			args = append(args, "-avoid_negative_ts", "make_zero", "-fflags", "+genpts")
		} else {
			// MKV ve diğer kaplar için copyts daha iyi çalışır
			args = append(args, "-copyts", "-avoid_negative_ts", "make_zero")
		}
		if rotationDegrees != 0 {
			args = append(args, "-metadata:s:v:0", fmt.Sprintf("rotate=%d", rotationDegrees))
		}
	} else {
		if rotationFilter != "" {
			args = append(args, "-vf", rotationFilter, "-metadata:s:v:0", "rotate=0")
		}
		args = append(args, "-c:v", "libx264", "-crf", "18", "-preset", "veryfast", "-pix_fmt", "yuv420p")
		if req.AudioOrder >= 0 {
			args = append(args, "-c:a", "copy")
		}
		if req.SubtitleIndex >= 0 {
			// kesim sonunu aşan altyazı paketleri çıktıyı uzatmasın
			args = append(args, "-c:s", "copy", "-shortest")
		}
	}

	args = append(args, "-y", outputPath)
	return args
}

// Cut kesimi çalıştırır. onProgress nil değilse tamamlanma yüzdesi
// değiştiğinde çağrılır.
func (t Tools) Cut(req CutRequest, onProgress func(percent int)) (CutResult, error) {
	if _, err := os.Stat(req.InputPath); err != nil {
		return CutResult{}, fmt.Errorf("girdi dosyası bulunamadı: %s", req.InputPath)
	}
	if req.OutSeconds <= req.InSeconds {
		return CutResult{}, fmt.Errorf("OUT değeri IN değerinden büyük olmalı")
	}
	if !ValidMode(req.Mode) {
		return CutResult{}, fmt.Errorf("geçersiz kip: %s", req.Mode)
	}

	rotation := t.ProbeRotation(req.InputPath)
	if req.Mode == ModeLossless && rotation != 0 {
		return CutResult{}, fmt.Errorf(
			"kayıpsız kesim döndürülmüş videoda (%d°) yönü güvenilir koruyamaz, Exact kipini kullanın", rotation)
	}

	namingPath := req.InputPath
	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
			return CutResult{}, fmt.Errorf("çıktı dizini oluşturulamadı: %w", err)
		}
		namingPath = filepath.Join(req.OutputDir, filepath.Base(req.InputPath))
	}
	outputPath, err := BuildOutputPath(namingPath, req.Mode, req.InText, req.OutText)
	if err != nil {
		return CutResult{}, err
	}

	args := BuildCutArgs(req, outputPath, rotation)
	if req.LogCommand != nil {
		req.LogCommand(t.FFmpeg, args)
	}
	cmd := exec.Command(t.FFmpeg, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return CutResult{}, fmt.Errorf("ffmpeg çıktısı yakalanamadı: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return CutResult{}, fmt.Errorf("ffmpeg çalıştırılamadı: %w (FFmpeg klasörünü ayarlayın ya da ffmpeg'i PATH'e ekleyin)", err)
	}

	// -progress pipe:1 key=value satırları yazar; out_time_us konumdur.
	durationUs := (req.OutSeconds - req.InSeconds) * 1e6
	lastPct := -1
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		val, ok := strings.CutPrefix(line, "out_time_us=")
		if !ok {
			continue
		}
		us, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || durationUs <= 0 {
			continue
		}
		pct := int(math.Min(math.Round(us/durationUs*100), 100))
		if pct != lastPct {
			lastPct = pct
			if onProgress != nil {
				onProgress(pct)
			}
		}
	}

	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return CutResult{}, fmt.Errorf("ffmpeg hatası: %s", msg)
		}
		return CutResult{}, fmt.Errorf("ffmpeg hatası: %w", err)
	}

	// 10KB altındaki çıktı büyük olasılıkla bozuk/boş
	info, err := os.Stat(outputPath)
	if err != nil || info.Size() < minOutputBytes {
		var size int64
		if err == nil {
			size = info.Size()
		}
		os.Remove(outputPath)
		return CutResult{}, fmt.Errorf(
			"kesim geçersiz çıktı üretti (%d bayt); kesim noktası anahtar kareden uzak olabilir, Exact kipini deneyin", size)
	}

	result := CutResult{
		OutputPath:        outputPath,
		RequestedDuration: req.OutSeconds - req.InSeconds,
	}
	if actual, ok := t.ProbeDuration(outputPath); ok {
		result.ActualDuration = actual
		result.HasActual = true
		if diff := math.Abs(actual - result.RequestedDuration); diff > 0.5 {
			result.DurationWarning = fmt.Sprintf(
				"çıktı süresi %.1fs (istenen %.1fs, fark %.1fs); kayıpsız kesim yalnızca anahtar karelerden bölebilir",
				actual, result.RequestedDuration, diff)
		}
	}
	return result, nil
}
