package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/reactvid-cli/deps"
	"github.com/user/reactvid-cli/logger"
	"github.com/user/reactvid-cli/mpv"
	"github.com/user/reactvid-cli/pkg/timeutil"
	"github.com/user/reactvid-cli/platform"
	"github.com/user/reactvid-cli/player"
	"github.com/user/reactvid-cli/tui"
)

// mpvStartTimeout bounds how long open waits for mpv's IPC socket.
const mpvStartTimeout = 5 * time.Second

var openCmd = &cobra.Command{
	Use:   "open <url|file>",
	Short: "Open a video for annotating",
	Long: `Open a video URL or local file. The video plays in mpv and the interactive
annotator starts in the terminal. The video becomes the current video for the
comment, transcript and export commands.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noPlayer, _ := cmd.Flags().GetBool("no-player")
		noTUI, _ := cmd.Flags().GetBool("no-tui")

		video, err := platform.Open(args[0])
		if err != nil {
			return err
		}
		if video.IsLocal() {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			if d, err := deps.ProbeDuration(ctx, video.LocalPath); err == nil {
				video.DurationSeconds = d
			} else {
				logger.Debug("probing duration: %v", err)
			}
			cancel()
		}

		sess, cleanup, err := newSession()
		if err != nil {
			return err
		}
		defer cleanup()

		var (
			p       player.Player
			process *exec.Cmd
		)
		if noPlayer {
			p = player.NewManual(video.Duration())
		} else {
			process, p, err = startMpv(cmd.Context(), video)
			if err != nil {
				return err
			}
			defer stopMpv(process)
		}

		if err := sess.Load(video, p); err != nil {
			return warnPersist(err)
		}
		if err := sess.RefreshMetadata(cmd.Context()); err != nil {
			logger.Debug("refreshing metadata: %v", err)
		}

		v := sess.Video()
		if noTUI {
			fmt.Printf("Video session started: %s (%s, duration: %s)\n", v.Title, v.Provider.DisplayName(), timeutil.Format(v.Duration()))
			fmt.Printf("%d comment(s) loaded.\n", sess.Annotations().Len())
			if process != nil {
				return process.Wait()
			}
			return nil
		}

		return tui.Run(sess, tui.Options{OutputDir: cfg.OutputDir})
	},
}

func startMpv(ctx context.Context, video platform.Video) (*exec.Cmd, player.Player, error) {
	target := video.LocalPath
	if !video.IsLocal() {
		target = video.WatchURL()
		if target == "" {
			target = video.SourceURL
		}
	}

	fmt.Printf("Opening video: %s\n", video.Title)
	process, err := mpv.Launch(target, cfg.Mpv.Socket)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to launch mpv: %w", err)
	}

	client := mpv.NewClient(cfg.Mpv.Socket)
	ctx, cancel := context.WithTimeout(ctx, mpvStartTimeout)
	defer cancel()
	if err := client.Ready(ctx); err != nil {
		stopMpv(process)
		return nil, nil, err
	}
	return process, client, nil
}

func stopMpv(process *exec.Cmd) {
	if process == nil || process.Process == nil {
		return
	}
	if process.ProcessState != nil {
		return
	}
	process.Process.Kill()
	process.Wait()
}

func init() {
	openCmd.Flags().Bool("no-player", false, "Do not launch mpv; set the time with h/l in the annotator")
	openCmd.Flags().Bool("no-tui", false, "Do not start the interactive annotator")
	rootCmd.AddCommand(openCmd)
}
