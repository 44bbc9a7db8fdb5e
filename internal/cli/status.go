package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vietddude/sentinel/internal/core/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and error state of a running sentinel",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port))
	if err != nil {
		slog.Error("Failed to reach sentinel", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Failed to read response", "error", err)
		os.Exit(1)
	}

	var health struct {
		Connectivity struct {
			IsOnline bool   `json:"is_online"`
			Quality  string `json:"quality"`
		} `json:"connectivity"`
		Errors *struct {
			TotalErrors int `json:"total_errors"`
			RetryCount  int `json:"retry_count"`
		} `json:"errors"`
		Retries struct {
			ActiveRetries int `json:"active_retries"`
			MaxRetries    int `json:"max_retries"`
		} `json:"retries"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		slog.Error("Failed to parse response", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ONLINE\tQUALITY\tERRORS\tRETRIES\tACTIVE")

	totalErrors, retryCount := 0, 0
	if health.Errors != nil {
		totalErrors = health.Errors.TotalErrors
		retryCount = health.Errors.RetryCount
	}
	_, _ = fmt.Fprintf(w, "%t\t%s\t%d\t%d\t%d\n",
		health.Connectivity.IsOnline, health.Connectivity.Quality,
		totalErrors, retryCount, health.Retries.ActiveRetries)
	_ = w.Flush()
}
