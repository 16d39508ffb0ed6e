package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clipwave/clipwave-cli/internal/config"
	"github.com/clipwave/clipwave-cli/internal/ffmpeg"
	"github.com/clipwave/clipwave-cli/internal/history"
	"github.com/clipwave/clipwave-cli/internal/timecode"
	"github.com/clipwave/clipwave-cli/internal/ui"
)

var (
	trimIn       string
	trimOut      string
	trimMode     string
	trimAudio    int
	trimSubtitle int
	trimForce    bool
)

var trimCmd = &cobra.Command{
	Use:   "trim <video>",
	Short: "Videoyu verilen aralikta keser",
	Long: `Videoyu --in ve --out noktaları arasında keser.

Kayıpsız modda (varsayılan) giriş noktası keyframe üzerinde değilse
kesim reddedilir ve keyframe raporu yazdırılır; --force ile yine de
kesebilirsiniz (başlangıç önceki keyframe'e kayar) ya da --mode exact
ile kareye tam kesim yapabilirsiniz.

Örnekler:
  clipwave trim film.mp4 --in 00:01:30 --out 00:02:45
  clipwave trim film.mp4 --in 0:00:05 --out 0:00:25.500 --mode exact
  clipwave trim film.mkv --in 00:10:00 --out 00:12:00 --audio 1
  clipwave trim film.mp4 --in 00:01:30 --out 00:02:45 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runTrim,
}

func runTrim(cmd *cobra.Command, args []string) error {
	input := args[0]
	applyProjectDefaults(cmd)

	inSec, err := timecode.Parse(trimIn)
	if err != nil {
		return fmt.Errorf("--in: %w", err)
	}
	outSec, err := timecode.Parse(trimOut)
	if err != nil {
		return fmt.Errorf("--out: %w", err)
	}
	if outSec <= inSec {
		return fmt.Errorf("çıkış noktası giriş noktasından büyük olmalı")
	}

	mode := ffmpeg.CutMode(trimMode)
	if !ffmpeg.ValidMode(mode) {
		return fmt.Errorf("geçersiz kip: %s (lossless ya da exact)", trimMode)
	}

	tools := resolveTools()
	if !tools.Available() {
		return fmt.Errorf("ffmpeg/ffprobe bulunamadı; --ffmpeg-dir ile dizin verin")
	}

	info, err := tools.Probe(input)
	if err != nil {
		return err
	}

	// Dosyada hiç ses yoksa sessiz kesilir; akış varsa sıra doğrulanır
	audioOrder := -1
	if trimAudio >= 0 && len(info.Audio) > 0 {
		if trimAudio >= len(info.Audio) {
			return fmt.Errorf("ses akışı %d yok (%d akış var)", trimAudio, len(info.Audio))
		}
		audioOrder = info.Audio[trimAudio].Order
	}

	subtitleIndex := -1
	if trimSubtitle >= 0 {
		if mode == ffmpeg.ModeLossless {
			return fmt.Errorf("kayıpsız modda altyazı kopyalanamaz, --mode exact kullanın")
		}
		subs, err := tools.ProbeSubtitles(input)
		if err != nil {
			return err
		}
		if trimSubtitle >= len(subs) {
			return fmt.Errorf("altyazı akışı %d yok (%d akış var)", trimSubtitle, len(subs))
		}
		subtitleIndex = subs[trimSubtitle].Index
	}

	// Kayıpsız kesimde keyframe hizası önce denetlenir
	if mode == ffmpeg.ModeLossless {
		pf, err := tools.Preflight(input, inSec, outSec)
		if err != nil {
			return fmt.Errorf("keyframe analizi başarısız: %w", err)
		}
		printKeyframeReport(pf)
		if !pf.Aligned() && !trimForce {
			return fmt.Errorf("giriş noktası keyframe üzerinde değil; --force ile devam edin ya da --mode exact kullanın")
		}
	}

	// Flag ve proje ayarı yoksa kayıtlı varsayılan çıktı dizini geçerli
	if outputDir == "" {
		outputDir = config.GetDefaultOutputDir()
	}

	req := ffmpeg.CutRequest{
		InputPath:     input,
		InText:        trimIn,
		OutText:       trimOut,
		InSeconds:     inSec,
		OutSeconds:    outSec,
		Mode:          mode,
		AudioOrder:    audioOrder,
		SubtitleIndex: subtitleIndex,
		OutputDir:     outputDir,
	}

	if verbose {
		req.LogCommand = func(name string, args []string) {
			ui.PrintInfo(name + " " + strings.Join(args, " "))
		}
	}

	ui.PrintInfo(fmt.Sprintf("Kesiliyor: %s → %s (%s)", trimIn, trimOut, mode))
	bar := ui.NewProgressBar("Kesim")
	result, err := tools.Cut(req, func(percent int) {
		bar.Update(percent)
	})
	fmt.Println()

	recordTrimHistory(req, result, err)
	if err != nil {
		return err
	}

	ui.PrintCut(input, result.OutputPath)
	if result.HasActual {
		ui.PrintInfo(fmt.Sprintf("Çıktı süresi: %s", timecode.FormatWithMillis(result.ActualDuration)))
	}
	if result.DurationWarning != "" {
		ui.PrintWarning(result.DurationWarning)
	}
	ui.PrintSuccess("Kesim tamamlandı")
	return nil
}

// applyProjectDefaults çalışma dizinindeki (ya da üstündeki)
// .clipwave.toml varsayılanlarını, kullanıcı flag vermediyse uygular.
func applyProjectDefaults(cmd *cobra.Command) {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	proj, path, err := config.LoadProjectConfig(wd)
	if err != nil || proj == nil {
		return
	}
	if verbose {
		ui.PrintInfo("Proje ayarları: " + path)
	}
	if !cmd.Flags().Changed("mode") && proj.Mode != "" {
		trimMode = proj.Mode
	}
	if outputDir == "" && proj.OutputDir != "" {
		outputDir = proj.OutputDir
	}
	if ffmpegDir == "" && proj.FFmpegDir != "" {
		ffmpegDir = proj.FFmpegDir
	}
	if !cmd.Flags().Changed("audio") {
		trimAudio = proj.Audio
	}
}

func printKeyframeReport(pf ffmpeg.PreflightResult) {
	if pf.NearestKeyframe != nil {
		ui.PrintInfo(fmt.Sprintf("Önceki keyframe:  %s", timecode.FormatWithMillis(*pf.NearestKeyframe)))
	}
	if pf.NextKeyframe != nil {
		ui.PrintInfo(fmt.Sprintf("Sonraki keyframe: %s", timecode.FormatWithMillis(*pf.NextKeyframe)))
	}
	if pf.Aligned() {
		ui.PrintSuccess("Giriş noktası keyframe hizalı")
		return
	}
	if pf.StartShift != nil {
		ui.PrintWarning(fmt.Sprintf("Giriş noktası keyframe üzerinde değil; kayıpsız kesim başlangıcı %.3f sn geriye kaydırır", *pf.StartShift))
	}
	if pf.EndShift != nil {
		ui.PrintInfo(fmt.Sprintf("Bitiş bir sonraki keyframe'e %.3f sn uzar", *pf.EndShift))
	}
}

func recordTrimHistory(req ffmpeg.CutRequest, result ffmpeg.CutResult, cutErr error) {
	dbPath, err := config.HistoryDBPath()
	if err != nil {
		return
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return
	}
	defer store.Close()

	entry := history.Entry{
		InputPath:     req.InputPath,
		InTime:        req.InText,
		OutTime:       req.OutText,
		Mode:          string(req.Mode),
		AudioOrder:    req.AudioOrder,
		SubtitleIndex: req.SubtitleIndex,
		OutputPath:    result.OutputPath,
		Status:        "ok",
	}
	if cutErr != nil {
		entry.Status = "error"
		entry.Message = cutErr.Error()
	}
	if err := store.Record(entry); err != nil && verbose {
		ui.PrintWarning("Geçmiş kaydı yazılamadı: " + err.Error())
	}
}

func init() {
	trimCmd.Flags().StringVar(&trimIn, "in", "", "Giriş noktası (SS:DD:ss[.mmm])")
	trimCmd.Flags().StringVar(&trimOut, "out", "", "Çıkış noktası (SS:DD:ss[.mmm])")
	trimCmd.Flags().StringVar(&trimMode, "mode", "lossless", "Kesim kipi: lossless ya da exact")
	trimCmd.Flags().IntVar(&trimAudio, "audio", 0, "Ses akışı sırası (negatif: ses yok)")
	trimCmd.Flags().IntVar(&trimSubtitle, "subtitle", -1, "Altyazı akışı sırası (yalnızca exact)")
	trimCmd.Flags().BoolVar(&trimForce, "force", false, "Keyframe hizasız olsa da kayıpsız kes")
	trimCmd.MarkFlagRequired("in")
	trimCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(trimCmd)
}
