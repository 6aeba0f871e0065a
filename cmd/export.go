package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/reactvid-cli/pkg/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <csv|txt|json|pdf|html|zip|srt>",
	Short: "Export the current video's annotations",
	Long: `Export the comments and reactions of the current video.

Formats:
  csv   one row per annotation
  txt   readable list with a title block
  json  everything, re-importable with 'reactvid import'
  pdf   a printable report
  html  a single interactive page with a clickable timeline
  zip   a folder with the page, data, lists, transcript and the local video
  srt   the transcript as subtitles`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"csv", "txt", "json", "pdf", "html", "zip", "srt"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(args[0])
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.OutputDir
		}

		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		progress := func(int) {}
		if format == export.FormatZIP {
			progress = func(pct int) {
				fmt.Fprintf(os.Stderr, "\rPacking... %3d%% %s", pct, progressBar(pct, 20))
			}
		}

		path, err := sess.Export(format, dir, progress)
		if format == export.FormatZIP {
			fmt.Fprintln(os.Stderr)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Exported %s to %s\n", format.Label(), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore annotations from a JSON export",
	Long: `Replace the annotations and transcript with those in a JSON export or a
bundle's data.json. With no current video, the exported video becomes current.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		sess, cleanup, err := newSession()
		if err != nil {
			return err
		}
		defer cleanup()
		if _, err := sess.Restore(nil); err != nil {
			return err
		}

		n, err := sess.ImportJSON(data)
		if err := warnPersist(err); err != nil {
			return err
		}
		fmt.Printf("Imported %d annotation(s) and %d transcript segment(s) for %s.\n",
			n, sess.Transcript().Len(), sess.Video().Title)
		return nil
	},
}

func progressBar(pct, width int) string {
	filled := pct * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func init() {
	exportCmd.Flags().StringP("dir", "d", "", "Output directory (default from config)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
