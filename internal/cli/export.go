package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vietddude/sentinel/internal/core/config"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the privacy-safe error report from a running sentinel",
	Run:   runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "error-report.json", "output file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/errors/export", cfg.Server.Port))
	if err != nil {
		slog.Error("Failed to reach sentinel", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := os.Create(exportOut)
	if err != nil {
		slog.Error("Failed to create output file", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		slog.Error("Failed to write report", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Report written to %s\n", exportOut)
}
