package ffmpeg

import (
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"sort"
	"strconv"
)

// ========================================
// Anahtar Kare Analizi (lossless ön kontrol)
// ========================================

// PreflightResult kayıpsız kesim öncesi anahtar kare analizinin
// sonucudur. İşaretçi alanlar "bulunamadı" durumunu taşır.
type PreflightResult struct {
	InTimeSeconds   float64
	NearestKeyframe *float64
	NextKeyframe    *float64
	// StartShift, istenen IN ile ondan önceki en yakın anahtar kare
	// arasındaki pozitif farktır; nil anahtar kare bulunamadı demektir.
	StartShift *float64

	OutTimeSeconds  float64
	OutPrevKeyframe *float64
	OutNextKeyframe *float64
	EndShift        *float64
}

// AlignmentEpsilon altında kalan kaymalar hizalı sayılır.
const AlignmentEpsilon = 0.0005

// Aligned kaymanın hizalı sayılıp sayılmayacağını söyler.
func (r PreflightResult) Aligned() bool {
	return r.StartShift == nil || *r.StartShift <= AlignmentEpsilon
}

// keyframeFrames ffprobe -show_frames çıktısının ilgili kısmı
type keyframeFrames struct {
	Frames []struct {
		Timestamp string `json:"best_effort_timestamp_time"`
	} `json:"frames"`
}

// keyframesIn verilen read_intervals aralığındaki anahtar kare
// zamanlarını toplar. -skip_frame nokey ile yalnızca anahtar kareler
// gezilir, bu yüzden pencere büyüdükçe de ucuz kalır.
func (t Tools) keyframesIn(input, interval string) ([]float64, error) {
	cmd := exec.Command(t.FFprobe,
		"-v", "quiet",
		"-select_streams", "v:0",
		"-skip_frame", "nokey",
		"-read_intervals", interval,
		"-print_format", "json",
		"-show_frames",
		"-show_entries", "frame=best_effort_timestamp_time",
		input,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, probeRunError(err)
	}
	var result keyframeFrames
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("ffprobe çıktısı çözümlenemedi: %w", err)
	}
	times := make([]float64, 0, len(result.Frames))
	for _, f := range result.Frames {
		if v, err := strconv.ParseFloat(f.Timestamp, 64); err == nil {
			times = append(times, v)
		}
	}
	return times, nil
}

func roundMillis(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// surroundingKeyframes hedefin öncesindeki son ve sonrasındaki ilk
// anahtar kareyi bulur. Pencereler dar başlar ve anahtar kare
// bulunana dek genişletilir; sonuçlar milisaniyeye yuvarlanır.
// Hiçbir şey bulunamadıysa ve en az bir sondaj hata verdiyse hata
// döner; sessizce "hizalı" görünmek yerine kullanıcıya bildirilir.
func (t Tools) surroundingKeyframes(input string, target float64) (prev, next *float64, err error) {
	windows := []float64{60, 600, 3600}
	var lastErr error

	for _, w := range windows {
		start := math.Max(target-w, 0)
		times, kfErr := t.keyframesIn(input, fmt.Sprintf("%v%%%v", start, target))
		if kfErr != nil {
			lastErr = kfErr
			continue
		}
		sort.Float64s(times)
		if len(times) > 0 {
			v := roundMillis(times[len(times)-1])
			prev = &v
			break
		}
	}

	for _, w := range windows {
		times, kfErr := t.keyframesIn(input, fmt.Sprintf("%v%%%v", target, target+w))
		if kfErr != nil {
			lastErr = kfErr
			continue
		}
		sort.Float64s(times)
		for _, kf := range times {
			if kf+1e-6 >= target {
				v := roundMillis(kf)
				next = &v
				break
			}
		}
		if next != nil {
			break
		}
	}

	if prev == nil && next == nil && lastErr != nil {
		return nil, nil, lastErr
	}
	return prev, next, nil
}

// Preflight IN ve OUT noktalarını çevreleyen anahtar kareleri bulur
// ve kayıpsız kesimin gerçekte nereden başlayacağını hesaplar.
// IN <= 0 kendiliğinden hizalıdır: her akış bir anahtar kareyle başlar.
func (t Tools) Preflight(input string, inSeconds, outSeconds float64) (PreflightResult, error) {
	result := PreflightResult{InTimeSeconds: inSeconds, OutTimeSeconds: outSeconds}

	if inSeconds <= 0 {
		zero := 0.0
		z2 := 0.0
		result.NearestKeyframe = &zero
		result.NextKeyframe = &z2
	} else {
		var err error
		result.NearestKeyframe, result.NextKeyframe, err = t.surroundingKeyframes(input, inSeconds)
		if err != nil {
			return PreflightResult{}, err
		}
	}

	if result.NearestKeyframe != nil {
		shift := 0.0
		if *result.NearestKeyframe <= inSeconds {
			shift = math.Max(inSeconds-*result.NearestKeyframe, 0)
		}
		result.StartShift = &shift
	}

	// OUT analizi tamamlayıcıdır; buradaki hata ön kontrolü düşürmez
	result.OutPrevKeyframe, result.OutNextKeyframe, _ = t.surroundingKeyframes(input, outSeconds)
	if result.OutNextKeyframe != nil {
		shift := 0.0
		if *result.OutNextKeyframe > outSeconds+1e-6 {
			shift = math.Max(*result.OutNextKeyframe-outSeconds, 0)
		}
		result.EndShift = &shift
	}

	return result, nil
}
