package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vietddude/walletbridge/internal/connect"
	"github.com/vietddude/walletbridge/internal/core/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current wallet connection state",
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
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/status", cfg.Server.Port))
	if err != nil {
		slog.Error("Failed to reach walletbridge, is it running?", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var status connect.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		slog.Error("Failed to decode status", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "STATE\tADDRESS\tBALANCE\tNETWORK")

	if status.Wallet != nil {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			status.State, status.Wallet.Address, status.Wallet.Balance, status.Wallet.ChainName)
	} else {
		detail := "-"
		if status.LastError != "" {
			detail = status.LastError
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t-\t-\n", status.State, detail)
	}
	_ = w.Flush()
}
