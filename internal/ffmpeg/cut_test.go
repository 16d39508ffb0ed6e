package ffmpeg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func argsContain(args []string, seq ...string) bool {
	joined := " " + strings.Join(args, " ") + " "
	return strings.Contains(joined, " "+strings.Join(seq, " ")+" ")
}

func TestBuildCutArgsLossless(t *testing.T) {
	req := CutRequest{
		InputPath:  "/videos/movie.mp4",
		InSeconds:  10,
		OutSeconds: 20,
		Mode:       ModeLossless,
		AudioOrder: 1,
		// lossless kipte altyazı eşlenmemeli
		SubtitleIndex: 3,
	}
	args := BuildCutArgs(req, "/videos/movie_clip.mp4", 0)

	if !argsContain(args, "-ss", "10.000000", "-i", "/videos/movie.mp4") {
		t.Fatalf("lossless should seek before the input: %v", args)
	}
	if !argsContain(args, "-t", "10.000000") {
		t.Fatalf("duration flag missing: %v", args)
	}
	if !argsContain(args, "-c", "copy") {
		t.Fatalf("lossless must stream-copy: %v", args)
	}
	if !argsContain(args, "-map", "0:a:1") {
		t.Fatalf("audio order mapping missing: %v", args)
	}
	if argsContain(args, "-map", "0:3") {
		t.Fatalf("subtitles must not be mapped in lossless mode: %v", args)
	}
	if !argsContain(args, "-avoid_negative_ts", "make_zero", "-fflags", "+genpts") {
		t.Fatalf("mp4 timestamp flags missing: %v", args)
	}
	if argsContain(args, "-copyts") {
		t.Fatalf("copyts is for non-mp4 containers: %v", args)
	}
}

func TestBuildCutArgsLosslessMkvUsesCopyts(t *testing.T) {
	req := CutRequest{InputPath: "/v/a.mkv", InSeconds: 0, OutSeconds: 5, Mode: ModeLossless, AudioOrder: -1, SubtitleIndex: -1}
	args := BuildCutArgs(req, "/v/a_clip.mkv", 0)
	if !argsContain(args, "-copyts", "-avoid_negative_ts", "make_zero") {
		t.Fatalf("mkv should use copyts: %v", args)
	}
	if !argsContain(args, "-an") {
		t.Fatalf("negative audio order should drop audio: %v", args)
	}
}

func TestBuildCutArgsExact(t *testing.T) {
	req := CutRequest{
		InputPath:     "/videos/movie.mkv",
		InSeconds:     1.5,
		OutSeconds:    4.5,
		Mode:          ModeExact,
		AudioOrder:    0,
		SubtitleIndex: 2,
	}
	args := BuildCutArgs(req, "/videos/out.mkv", 0)

	if !argsContain(args, "-accurate_seek", "-ss", "1.500000") {
		t.Fatalf("exact mode should use accurate seek: %v", args)
	}
	if !argsContain(args, "-c:v", "libx264", "-crf", "18", "-preset", "veryfast", "-pix_fmt", "yuv420p") {
		t.Fatalf("exact encode settings missing: %v", args)
	}
	if !argsContain(args, "-map", "0:2") {
		t.Fatalf("subtitle mapping missing in exact mode: %v", args)
	}
	if !argsContain(args, "-c:s", "copy", "-shortest") {
		t.Fatalf("subtitle copy with -shortest missing: %v", args)
	}
	if !argsContain(args, "-c:a", "copy") {
		t.Fatalf("audio copy missing: %v", args)
	}
}

func TestBuildCutArgsExactAppliesRotationFilter(t *testing.T) {
	req := CutRequest{InputPath: "/v/a.mp4", InSeconds: 0, OutSeconds: 3, Mode: ModeExact, AudioOrder: -1, SubtitleIndex: -1}
	args := BuildCutArgs(req, "/v/out.mp4", 90)
	if !argsContain(args, "-noautorotate") {
		t.Fatalf("rotated input should disable autorotate: %v", args)
	}
	if !argsContain(args, "-vf", "transpose=2") {
		t.Fatalf("90 degree rotation should transpose ccw: %v", args)
	}
	if !argsContain(args, "-metadata:s:v:0", "rotate=0") {
		t.Fatalf("rotation metadata should be cleared: %v", args)
	}
}

func TestBuildOutputPathReplacesColons(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "film.mp4")
	got, err := BuildOutputPath(input, ModeLossless, "00:00:10", "00:01:00")
	if err != nil {
		t.Fatalf("BuildOutputPath failed: %v", err)
	}
	want := filepath.Join(dir, "film_clip_lossless_00h00h10_00h01h00.mp4")
	if got != want {
		t.Fatalf("output path = %q, want %q", got, want)
	}
}

func TestBuildOutputPathAutoNumbers(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "film.mp4")
	first := filepath.Join(dir, "film_clip_exact_0h00_0h05.mp4")
	if err := os.WriteFile(first, []byte("x"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	got, err := BuildOutputPath(input, ModeExact, "0:00", "0:05")
	if err != nil {
		t.Fatalf("BuildOutputPath failed: %v", err)
	}
	want := filepath.Join(dir, "film_clip_exact_0h00_0h05 (1).mp4")
	if got != want {
		t.Fatalf("numbered path = %q, want %q", got, want)
	}
}

func TestRotationFilters(t *testing.T) {
	cases := []struct {
		deg  int
		want string
	}{
		{0, ""}, {90, "transpose=2"}, {180, "hflip,vflip"}, {270, "transpose=1"},
		{-90, "transpose=1"}, {450, "transpose=2"}, {45, ""},
	}
	for _, c := range cases {
		if got := rotationFilterFor(c.deg); got != c.want {
			t.Fatalf("rotationFilterFor(%d) = %q, want %q", c.deg, got, c.want)
		}
	}
}

func TestValidMode(t *testing.T) {
	if !ValidMode(ModeLossless) || !ValidMode(ModeExact) {
		t.Fatalf("known modes should be valid")
	}
	if ValidMode("fast") {
		t.Fatalf("unknown mode should be rejected")
	}
}
