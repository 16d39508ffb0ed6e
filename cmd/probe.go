package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clipwave/clipwave-cli/internal/timecode"
	"github.com/clipwave/clipwave-cli/internal/ui"
)

var probeKeyframesAround string

var probeCmd = &cobra.Command{
	Use:   "probe <video>",
	Short: "Video akislarini ve suresini gosterir",
	Long: `Videonun süresini, ses ve altyazı akışlarını listeler.

--keyframes-around ile verilen zamanın çevresindeki keyframe'ler de
raporlanır; kayıpsız kesim öncesi hizayı elle denetlemek için kullanışlıdır.

Örnekler:
  clipwave probe film.mp4
  clipwave probe film.mp4 --keyframes-around 00:01:30`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	input := args[0]

	tools := resolveTools()
	if !tools.Available() {
		return fmt.Errorf("ffmpeg/ffprobe bulunamadı; --ffmpeg-dir ile dizin verin")
	}

	info, err := tools.Probe(input)
	if err != nil {
		return err
	}

	if info.HasDuration {
		ui.PrintInfo(fmt.Sprintf("Süre: %s", timecode.FormatWithMillis(info.DurationSeconds)))
	} else {
		ui.PrintWarning("Süre okunamadı")
	}

	if rotation := tools.ProbeRotation(input); rotation != 0 {
		ui.PrintWarning(fmt.Sprintf("Video %d° döndürülmüş; kayıpsız kesim reddedilir", rotation))
	}

	if len(info.Audio) > 0 {
		rows := make([][]string, 0, len(info.Audio))
		for _, a := range info.Audio {
			rows = append(rows, []string{
				strconv.Itoa(a.Order), a.Language, a.Codec, strconv.Itoa(a.Channels), a.Title,
			})
		}
		fmt.Println()
		ui.PrintTable([]string{"Sıra", "Dil", "Codec", "Kanal", "Başlık"}, rows)
	} else {
		ui.PrintInfo("Ses akışı yok")
	}

	subs, err := tools.ProbeSubtitles(input)
	if err != nil {
		return err
	}
	if len(subs) > 0 {
		rows := make([][]string, 0, len(subs))
		for _, s := range subs {
			rows = append(rows, []string{
				strconv.Itoa(s.Order), strconv.Itoa(s.Index), s.Language, s.Codec, s.Title,
			})
		}
		fmt.Println()
		ui.PrintTable([]string{"Sıra", "Akış", "Dil", "Codec", "Başlık"}, rows)
	} else {
		ui.PrintInfo("Altyazı akışı yok")
	}

	if probeKeyframesAround != "" {
		target, err := timecode.Parse(probeKeyframesAround)
		if err != nil {
			return fmt.Errorf("--keyframes-around: %w", err)
		}
		end := target
		if info.HasDuration {
			end = info.DurationSeconds
		}
		pf, err := tools.Preflight(input, target, end)
		if err != nil {
			return fmt.Errorf("keyframe analizi başarısız: %w", err)
		}
		fmt.Println()
		printKeyframeReport(pf)
	}

	return nil
}

func init() {
	probeCmd.Flags().StringVar(&probeKeyframesAround, "keyframes-around", "", "Bu zamanın çevresindeki keyframe'leri raporla (SS:DD:ss)")
	rootCmd.AddCommand(probeCmd)
}
