package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clipwave/clipwave-cli/internal/config"
	"github.com/clipwave/clipwave-cli/internal/ffmpeg"
)

var (
	verbose   bool
	outputDir string
	ffmpegDir string

	appVersion = "dev"
	appDate    = ""
)

// SetVersionInfo build-time version bilgisini ayarlar
func SetVersionInfo(version, date string) {
	if strings.TrimSpace(version) != "" {
		appVersion = version
	}
	appDate = strings.TrimSpace(date)
	if appDate == "" || appDate == "unknown" {
		appDate = time.Now().Format("2006-01-02 15:04:05")
	}
	rootCmd.Version = appVersion
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	return fmt.Sprintf(
		"ClipWave CLI v%s\nTarih:  %s\nGo:     %s\nOS:     %s/%s\n",
		appVersion, appDate, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}

var rootCmd = &cobra.Command{
	Use:   "clipwave",
	Short: "ClipWave CLI - kayipsiz video kesme araci",
	Long: `ClipWave CLI - Videolarınızı yeniden kodlamadan, kayıpsız kesin.

Kayıpsız modda ffmpeg stream copy kullanılır: giriş noktası en yakın
keyframe'e hizalanır, kalite kaybı olmaz. Hassas modda seçtiğiniz kareye
tam kesilir ancak video yeniden kodlanır.

Argümansız çalıştırıldığında interaktif editör açılır: maskeli SS:DD:ss
zaman alanları, keyframe ön kontrolü ve kesim geçmişi.

Örnekler:
  clipwave
  clipwave trim film.mp4 --in 00:01:30 --out 00:02:45
  clipwave trim film.mp4 --in 0:00:05 --out 0:00:25 --mode exact
  clipwave trim film.mkv --in 00:10:00 --out 00:12:00 --audio 1 --force
  clipwave probe film.mp4
  clipwave probe film.mp4 --keyframes-around 00:01:30
  clipwave history --limit 10`,
	Version: appVersion,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Argümansız çalıştırıldığında interaktif mod başlat
		return RunInteractive()
	},
}

// Execute CLI'ı çalıştırır
func Execute() error {
	// .env varsa ortam değişkenleri oradan da okunur (FFMPEG_BIN_DIR vb.)
	_ = godotenv.Load()
	return rootCmd.Execute()
}

// resolveTools flag > env/config sırasıyla araç dizinini çözer
func resolveTools() ffmpeg.Tools {
	binDir := ffmpegDir
	if binDir == "" {
		binDir = config.GetFFmpegBinDir()
	}
	return ffmpeg.Resolve(binDir)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Detaylı çıktı modu")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Çıktı dizini (varsayılan: kaynak dizin)")
	rootCmd.PersistentFlags().StringVar(&ffmpegDir, "ffmpeg-dir", "", "ffmpeg/ffprobe ikililerinin dizini")

	SetVersionInfo(appVersion, appDate)

	// Hata mesajlarını özelleştir
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(os.Stderr, "Hata: %s\n\n", err.Error())
		cmd.Usage()
		return err
	})
}
