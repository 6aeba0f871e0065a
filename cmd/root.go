package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/user/reactvid-cli/config"
	"github.com/user/reactvid-cli/deps"
	"github.com/user/reactvid-cli/logger"
)

var Version = "0.1.0"

var (
	configPath string
	verbose    bool
	dataDir    string
	atFlag     string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "reactvid",
	Short: "Timestamped comments and reactions for videos",
	Long: `reactvid attaches timestamped comments, emoji reactions and a transcript
to a video (YouTube, Vimeo, TikTok and other hosts, or a local file) and
exports them as CSV, text, JSON, PDF, an interactive HTML page or a ZIP bundle.

Features:
  - Open a URL or local file in mpv and annotate while it plays
  - Import, capture and promote transcript lines
  - Export everything for sharing or re-import later`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reactvid version %s\n", Version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that the external programs reactvid uses (mpv, ffprobe) are installed and available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking dependencies...")
		fmt.Println()

		missingRequired := false
		for _, d := range deps.Known {
			err := deps.Check(d)
			switch {
			case err == nil:
				fmt.Printf("✓ %s: OK\n", d.Name)
			case d.Required:
				fmt.Printf("✗ %s: NOT FOUND (%s)\n", d.Name, d.Purpose)
				fmt.Printf("  Install from: %s\n", d.InstallURL)
				missingRequired = true
			default:
				fmt.Printf("- %s: not found, optional (%s)\n", d.Name, d.Purpose)
				fmt.Printf("  Install from: %s\n", d.InstallURL)
			}
		}

		fmt.Println()
		fmt.Printf("Storage: %s (%s)\n", cfg.Storage.Backend, storageLocation())
		fmt.Println()
		if missingRequired {
			return fmt.Errorf("some required dependencies are missing")
		}
		fmt.Println("All required dependencies are installed!")
		return nil
	},
}

// setup resolves configuration: defaults, file, environment, then flags.
func setup(cmd *cobra.Command) error {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data-dir") {
		c.DataDir = dataDir
	}
	if cmd.Flags().Changed("verbose") {
		c.Verbose = verbose
	}
	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c
	logger.SetVerbose(cfg.Verbose)
	logger.Debug("config loaded from %s", path)
	return nil
}

func storageLocation() string {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return cfg.Storage.RedisAddr
	case config.BackendMemory:
		return "not persisted"
	default:
		return cfg.DataDir
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/reactvid/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for the annotation database")
	rootCmd.PersistentFlags().StringVar(&atFlag, "at", "", "Timestamp to use instead of the player position (e.g. 1:05)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
