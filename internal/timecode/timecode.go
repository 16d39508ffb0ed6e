// Package timecode, HH:MM:SS maskesi ve zaman metinleri için saf
// dönüşüm fonksiyonlarını içerir. Tüm fonksiyonlar totaldir: geçersiz
// girdi panik yerine kırpılır ya da hata döner.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxMaskSeconds, 99:59:59 maskesinin temsil edebileceği üst sınır.
const MaxMaskSeconds = 99*3600 + 59*60 + 59

// NormalizeMask ham metni 6 haneli maske gövdesine çevirir: rakam
// olmayanlar atılır, 6 haneden fazlası kırpılır, eksik kalan sağdan
// '0' ile doldurulur. Sonuç her zaman tam 6 rakamdır ve fonksiyon
// kendi çıktısı üzerinde sabittir.
func NormalizeMask(raw string) string {
	var b strings.Builder
	b.Grow(6)
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 6 {
				break
			}
		}
	}
	s := b.String()
	for len(s) < 6 {
		s += "0"
	}
	return s
}

// Display 6 haneli gövdeyi "HH:MM:SS" görünümüne çevirir.
func Display(digits string) string {
	d := NormalizeMask(digits)
	return d[0:2] + ":" + d[2:4] + ":" + d[4:6]
}

// IndexFromCaret, 8 karakterlik "HH:MM:SS" görünümündeki imleç
// konumunu 0..5 arası rakam indeksine indirger. İki nokta üstüne
// düşen konumlar soldaki rakama yapışır.
func IndexFromCaret(pos int) int {
	switch {
	case pos <= 0:
		return 0
	case pos <= 1:
		return 1
	case pos <= 3:
		return 2
	case pos <= 4:
		return 3
	case pos <= 6:
		return 4
	default:
		return 5
	}
}

// CaretFromIndex rakam indeksini görünümdeki imleç konumuna çevirir.
// indeks 5 sonrası alan sonunu (7) verir.
func CaretFromIndex(idx int) int {
	carets := [...]int{0, 1, 3, 4, 6, 7}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(carets) {
		idx = len(carets) - 1
	}
	return carets[idx]
}

// GroupSpan bir rakam indeksinin ait olduğu grubun görünümdeki
// [lo, hi) aralığını verir: saat [0,2), dakika [3,5), saniye [6,8).
func GroupSpan(idx int) (int, int) {
	switch {
	case idx <= 1:
		return 0, 2
	case idx <= 3:
		return 3, 5
	default:
		return 6, 8
	}
}

// GroupOfIndex rakam indeksinin grubunu döner: 0 saat, 1 dakika, 2 saniye.
func GroupOfIndex(idx int) int {
	switch {
	case idx <= 1:
		return 0
	case idx <= 3:
		return 1
	default:
		return 2
	}
}

// MaskSeconds 6 haneli maske gövdesini toplam saniyeye çevirir.
func MaskSeconds(digits string) float64 {
	d := NormalizeMask(digits)
	h, _ := strconv.Atoi(d[0:2])
	m, _ := strconv.Atoi(d[2:4])
	s, _ := strconv.Atoi(d[4:6])
	return float64(h*3600 + m*60 + s)
}

// MaskFromSeconds toplam saniyeyi 6 haneli maske gövdesine çevirir.
// Değer [0, min(maxSeconds, MaxMaskSeconds)] aralığına kırpılır;
// maxSeconds <= 0 sınırsız sayılır.
func MaskFromSeconds(total float64, maxSeconds float64) string {
	limit := float64(MaxMaskSeconds)
	if maxSeconds > 0 && maxSeconds < limit {
		limit = math.Floor(maxSeconds)
	}
	if total < 0 || math.IsNaN(total) {
		total = 0
	}
	if total > limit {
		total = limit
	}
	t := int(total)
	return fmt.Sprintf("%02d%02d%02d", t/3600, (t/60)%60, t%60)
}

// Parse "s+:dd:ss" ya da "s+:dd:ss.mmm" biçimindeki metni saniyeye
// çevirir. Saat hanesi serbest uzunlukta, dakika tam iki hane olmalı;
// dakika ve saniye 60'tan küçük olmalı. Milisaniye en çok üç hane.
func Parse(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	base := trimmed
	millis := 0.0
	if dot := strings.IndexByte(trimmed, '.'); dot >= 0 {
		base = trimmed[:dot]
		frac := trimmed[dot+1:]
		if len(frac) < 1 || len(frac) > 3 {
			return 0, fmt.Errorf("milisaniye 1-3 hane olmalı")
		}
		// Atoi işaret kabul eder; kesir yalnızca rakamlardan oluşmalı
		for _, r := range frac {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("geçersiz milisaniye")
			}
		}
		for len(frac) < 3 {
			frac += "0"
		}
		ms, _ := strconv.Atoi(frac)
		millis = float64(ms) / 1000
	}

	parts := strings.Split(base, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("zaman formatı SS:DD:ss olmalı")
	}
	if parts[0] == "" || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, fmt.Errorf("zaman formatı SS:DD:ss olmalı")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("geçersiz saat değeri")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m >= 60 {
		return 0, fmt.Errorf("dakika 00-59 aralığında olmalı")
	}
	s, err := strconv.Atoi(parts[2])
	if err != nil || s < 0 || s >= 60 {
		return 0, fmt.Errorf("saniye 00-59 aralığında olmalı")
	}
	return float64(h*3600+m*60+s) + millis, nil
}

// FormatWhole saniyeyi "S:DD:ss" biçiminde yazar; saat tek haneli
// kalabilir. Negatif ya da sonlu olmayan değerler için boş döner.
func FormatWhole(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ""
	}
	t := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d:%02d", t/3600, (t/60)%60, t%60)
}

// FormatWithMillis saniyeyi "SS:DD:ss.mmm" biçiminde milisaniye
// hassasiyetiyle yazar. Negatif ya da sonlu olmayan değerler için boş döner.
func FormatWithMillis(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ""
	}
	ms := int(math.Round(seconds * 1000))
	t := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t/3600, (t/60)%60, t%60, ms%1000)
}
