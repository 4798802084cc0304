package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/fingerspell/internal/app"
	"github.com/ayusman/fingerspell/internal/server"
	"github.com/ayusman/fingerspell/internal/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the practice server",
	Long: `Serve the practice API, the frame WebSocket and the web client.

Example:
  fingerspell serve --addr :8080 --web ./web
  FINGERSPELL_MAX_FPS=10 fingerspell serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("web", "", "directory of static web files")
	serveCmd.Flags().Duration("session-ttl", 0, "expire idle sessions after this long (default 30m)")
	serveCmd.Flags().Float64("max-fps", 0, "frames scored per second on each WebSocket (default 15)")

	_ = viper.BindPFlag(keyAddr, serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag(keyWebDir, serveCmd.Flags().Lookup("web"))
	_ = viper.BindPFlag(keySessionTTL, serveCmd.Flags().Lookup("session-ttl"))
	_ = viper.BindPFlag(keyMaxFPS, serveCmd.Flags().Lookup("max-fps"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if err := ensureDir(cfg.DB); err != nil {
		return err
	}

	st, err := store.New(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	webDir := cfg.WebDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		log.Printf("Serving static files from: %s", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		App:        app.New(app.Config{Store: st}),
		SessionTTL: cfg.SessionTTL,
		MaxFPS:     cfg.MaxFPS,
	})

	log.Printf("Starting server on %s (database %s)", cfg.Addr, cfg.DB)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.fingerspell/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir(), "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
