package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipwave/clipwave-cli/internal/config"
	"github.com/clipwave/clipwave-cli/internal/history"
	"github.com/clipwave/clipwave-cli/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Onceki kesimlerin kaydini listeler",
	Long: `Yapılan kesimleri (başarılı ve başarısız) en yeniden eskiye listeler.

Kayıtlar ~/.clipwave/history.db dosyasında tutulur.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, err := config.HistoryDBPath()
	if err != nil {
		return fmt.Errorf("geçmiş veritabanı açılamadı: %w", err)
	}
	store, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("geçmiş veritabanı açılamadı: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ui.PrintInfo("Henüz kayıtlı kesim yok")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := "✓"
		detail := e.OutputPath
		if e.Status != "ok" {
			status = "✗"
			detail = e.Message
		}
		rows = append(rows, []string{
			e.CreatedAt.Format("2006-01-02 15:04"),
			status,
			e.Mode,
			fmt.Sprintf("%s → %s", e.InTime, e.OutTime),
			e.InputPath,
			detail,
		})
	}
	ui.PrintTable([]string{"Tarih", "", "Kip", "Aralık", "Girdi", "Çıktı/Hata"}, rows)
	return nil
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Listelenecek kayıt sayısı")
	rootCmd.AddCommand(historyCmd)
}
