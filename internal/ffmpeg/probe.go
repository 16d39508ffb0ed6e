package ffmpeg

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ========================================
// Medya Sondajı (ffprobe)
// ========================================

// AudioStream bir ses akışını tanımlar. Order, ffmpeg eşlemesinde
// kullanılan tür içi sıradır (`0:a:{order}`); Index ffprobe'un global
// akış indeksidir.
type AudioStream struct {
	Order    int
	Index    int
	Codec    string
	Channels int
	Language string
	Title    string
}

// SubtitleStream bir altyazı akışını tanımlar.
type SubtitleStream struct {
	Order    int
	Index    int
	Codec    string
	Language string
	Title    string
}

// MediaInfo tek bir sondajın sonucudur. Subtitles alanını Probe
// doldurmaz; ayrı bir ProbeSubtitles çağrısıyla sonradan eklenir.
type MediaInfo struct {
	InputPath       string
	DurationSeconds float64
	HasDuration     bool
	Audio           []AudioStream
	Subtitles       []SubtitleStream
}

// probeResult ffprobe JSON çıktısının ilgili alanları
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		Index     int    `json:"index"`
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Channels  int    `json:"channels,omitempty"`
		Tags      struct {
			Language string `json:"language"`
			Title    string `json:"title"`
		} `json:"tags"`
	} `json:"streams"`
}

var (
	probeCacheMu sync.Mutex
	probeCache   = map[string]MediaInfo{}
	subsCache    = map[string][]SubtitleStream{}
)

// cacheKey dosya yolu, boyutu ve değişme zamanından anahtar üretir;
// dosya değiştiğinde eski sonuç kendiliğinden geçersizleşir.
func cacheKey(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
}

// InvalidateProbe verilen dosyanın önbellek kaydını düşürür.
func InvalidateProbe(path string) {
	probeCacheMu.Lock()
	defer probeCacheMu.Unlock()
	key := cacheKey(path)
	delete(probeCache, key)
	delete(subsCache, key)
	// stat başarısız olduysa eski anahtarlar path önekiyle temizlenir
	for k := range probeCache {
		if strings.HasPrefix(k, path+"|") {
			delete(probeCache, k)
		}
	}
	for k := range subsCache {
		if strings.HasPrefix(k, path+"|") {
			delete(subsCache, k)
		}
	}
}

// Probe süre ve ses akışlarını okur. Sondaj bilinçli olarak hafif
// tutulur: yalnızca kullanılan alanlar istenir, altyazılar ayrı bir
// ProbeSubtitles çağrısına bırakılır; tam -show_streams bazı
// dosyalarda çok yavaş olabilir.
func (t Tools) Probe(path string) (MediaInfo, error) {
	if _, err := os.Stat(path); err != nil {
		return MediaInfo{}, fmt.Errorf("girdi dosyası bulunamadı: %s", path)
	}

	key := cacheKey(path)
	probeCacheMu.Lock()
	if cached, ok := probeCache[key]; ok {
		probeCacheMu.Unlock()
		return cached, nil
	}
	probeCacheMu.Unlock()

	cmd := exec.Command(t.FFprobe,
		"-v", "error",
		"-print_format", "json",
		"-select_streams", "a",
		"-show_entries",
		"format=duration:stream=index,codec_type,codec_name,channels:stream_tags=language,title",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return MediaInfo{}, probeRunError(err)
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return MediaInfo{}, fmt.Errorf("ffprobe çıktısı çözümlenemedi: %w", err)
	}

	info := MediaInfo{InputPath: path}
	if result.Format.Duration != "" {
		if dur, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
			info.DurationSeconds = dur
			info.HasDuration = true
		}
	}

	for _, s := range result.Streams {
		if s.CodecType != "audio" {
			continue
		}
		lang := s.Tags.Language
		if lang == "" {
			lang = "und"
		}
		info.Audio = append(info.Audio, AudioStream{
			Index:    s.Index,
			Codec:    s.CodecName,
			Channels: s.Channels,
			Language: lang,
			Title:    s.Tags.Title,
		})
	}

	// tür içi sıralar global indeks sırasına göre atanır
	sort.Slice(info.Audio, func(i, j int) bool { return info.Audio[i].Index < info.Audio[j].Index })
	for i := range info.Audio {
		info.Audio[i].Order = i
	}

	probeCacheMu.Lock()
	probeCache[key] = info
	probeCacheMu.Unlock()
	return info, nil
}

// ProbeSubtitles yalnızca altyazı akışlarını okur; editörde altyazılar
// süre/ses bilgisinden ayrı, gecikmeli yüklenir. mkv dosyalarında çok
// altyazı olabildiğinden ayrı sondaj açılışı bekletmez.
func (t Tools) ProbeSubtitles(path string) ([]SubtitleStream, error) {
	key := cacheKey(path)
	probeCacheMu.Lock()
	if cached, ok := subsCache[key]; ok {
		probeCacheMu.Unlock()
		return cached, nil
	}
	probeCacheMu.Unlock()

	cmd := exec.Command(t.FFprobe,
		"-v", "error",
		"-print_format", "json",
		"-select_streams", "s",
		"-show_entries", "stream=index,codec_type,codec_name:stream_tags=language,title",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, probeRunError(err)
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("ffprobe çıktısı çözümlenemedi: %w", err)
	}

	var subs []SubtitleStream
	for _, s := range result.Streams {
		lang := s.Tags.Language
		if lang == "" {
			lang = "und"
		}
		subs = append(subs, SubtitleStream{
			Index:    s.Index,
			Codec:    s.CodecName,
			Language: lang,
			Title:    s.Tags.Title,
		})
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Index < subs[j].Index })
	for i := range subs {
		subs[i].Order = i
	}

	probeCacheMu.Lock()
	subsCache[key] = subs
	probeCacheMu.Unlock()
	return subs, nil
}

// ProbeDuration tek bir dosyanın süresini okur (kesim sonrası doğrulama).
func (t Tools) ProbeDuration(path string) (float64, bool) {
	cmd := exec.Command(t.FFprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, false
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, false
	}
	return dur, true
}

// rotationProbe sadece dönüş metaverisi için kullanılan dar sondaj.
type rotationProbe struct {
	Streams []struct {
		Tags struct {
			Rotate string `json:"rotate"`
		} `json:"tags"`
		SideDataList []struct {
			Rotation json.Number `json:"rotation"`
		} `json:"side_data_list"`
	} `json:"streams"`
}

func normalizeRotation(deg int) int {
	d := deg % 360
	if d < 0 {
		d += 360
	}
	switch d {
	case 0, 90, 180, 270:
		return d
	}
	return 0
}

// rotationFilterFor exact modda uygulanacak video filtresini seçer.
// Birçok kaynak (özellikle telefon videoları) dönüşü saat yönünün
// tersi derece olarak bildirir; transpose=2 90° CCW, transpose=1 90° CW.
func rotationFilterFor(deg int) string {
	switch normalizeRotation(deg) {
	case 90:
		return "transpose=2"
	case 180:
		return "hflip,vflip"
	case 270:
		return "transpose=1"
	}
	return ""
}

// ProbeRotation girdinin dönüş derecesini okur; hata durumunda 0
// döner (en iyi çaba).
func (t Tools) ProbeRotation(path string) int {
	cmd := exec.Command(t.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-select_streams", "v:0",
		"-show_streams",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0
	}
	var result rotationProbe
	if err := json.Unmarshal(output, &result); err != nil || len(result.Streams) == 0 {
		return 0
	}
	v := result.Streams[0]
	if v.Tags.Rotate != "" {
		if deg, err := strconv.Atoi(v.Tags.Rotate); err == nil {
			return normalizeRotation(deg)
		}
	}
	for _, side := range v.SideDataList {
		if f, err := side.Rotation.Float64(); err == nil {
			if d := normalizeRotation(int(math.Round(f))); d != 0 {
				return d
			}
		}
	}
	return 0
}

func probeRunError(err error) error {
	if ee, ok := err.(*exec.ExitError); ok {
		msg := strings.TrimSpace(string(ee.Stderr))
		if msg != "" {
			return fmt.Errorf("ffprobe hatası: %s", msg)
		}
		return fmt.Errorf("ffprobe hatası: %w", err)
	}
	return fmt.Errorf("ffprobe çalıştırılamadı: %w (FFmpeg klasörünü ayarlayın ya da ffprobe'u PATH'e ekleyin)", err)
}
