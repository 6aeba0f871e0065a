package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/reactvid-cli/pkg/export"
	"github.com/user/reactvid-cli/pkg/fsutil"
	"github.com/user/reactvid-cli/pkg/timeutil"
	"github.com/user/reactvid-cli/transcript"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Manage the transcript of the current video",
	Long:  `Import, capture, list and export the spoken-word transcript of the current video, and promote lines to comments.`,
}

var transcriptImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the transcript with lines from a file",
	Long: `Replace the transcript with timestamped lines read from a file, or stdin with "-".
Lines like "1:05 - text", "[1:05] text" or "1:05 text" keep their timestamps;
other lines are spaced three seconds after the previous one. Files ending in
.srt are read as subtitles.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")

		raw, err := readInput(args[0])
		if err != nil {
			return err
		}

		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()
		tr := sess.Transcript()

		var n int
		if strings.EqualFold(filepath.Ext(args[0]), ".srt") {
			segments, perr := transcript.ParseSubtitles(strings.NewReader(raw))
			if perr != nil {
				return fmt.Errorf("failed to read subtitles: %w", perr)
			}
			n, err = len(segments), tr.Replace(segments, lang)
		} else {
			n, err = tr.ImportBulk(raw, lang)
			if n == 0 {
				return err
			}
		}
		if err := warnPersist(err); err != nil {
			return err
		}
		fmt.Printf("Imported %d transcript segment(s) (%s).\n", n, tr.Language())
		return nil
	},
}

var transcriptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transcript segments in time order",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		segments := sess.Transcript().Sorted()
		if len(segments) == 0 {
			fmt.Println("No transcript yet.")
			return nil
		}
		for i, seg := range segments {
			conf := ""
			if seg.Confidence != nil {
				conf = fmt.Sprintf(" (%.0f%%)", *seg.Confidence*100)
			}
			fmt.Printf("%3d  [%s] %s%s\n", i+1, seg.Time(), seg.Text, conf)
		}
		return nil
	},
}

var transcriptAddCmd = &cobra.Command{
	Use:   "add <time> <text>",
	Short: "Add a transcript segment",
	Long:  `Add a segment at a timestamp such as 1:05 or 1:02:03.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		seg, err := sess.Transcript().Add(timeutil.Parse(args[0]), strings.Join(args[1:], " "))
		if seg.Text == "" {
			return err
		}
		if err := warnPersist(err); err != nil {
			return err
		}
		fmt.Printf("Segment added at %s.\n", seg.Time())
		return nil
	},
}

var transcriptPromoteCmd = &cobra.Command{
	Use:   "promote <n>",
	Short: "Add one transcript segment as a comment",
	Long:  `Add segment n (as numbered by 'transcript list') as a comment at its timestamp.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid segment number: %s", args[0])
		}

		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		segments := sess.Transcript().Sorted()
		if n < 1 || n > len(segments) {
			return fmt.Errorf("segment %d not found (have %d)", n, len(segments))
		}
		a, err := transcript.Promote(segments[n-1], sess.Annotations())
		if a.ID == "" {
			return err
		}
		if err := warnPersist(err); err != nil {
			return err
		}
		fmt.Printf("Comment added at %s.\n", a.Time())
		return nil
	},
}

var transcriptPromoteAllCmd = &cobra.Command{
	Use:   "promote-all",
	Short: "Add every transcript segment as a comment",
	Long:  `Add every segment as a comment at its timestamp. Prompts for confirmation unless --force is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		tr := sess.Transcript()
		if tr.Len() == 0 {
			fmt.Println("No transcript to promote.")
			return nil
		}
		added, err := tr.PromoteAll(sess.Annotations(), stdinConfirm(force))
		if err := warnPersist(err); err != nil {
			return err
		}
		if added == 0 {
			fmt.Println("No comments added.")
			return nil
		}
		fmt.Printf("%d comment(s) added.\n", added)
		return nil
	},
}

var transcriptSRTCmd = &cobra.Command{
	Use:   "srt",
	Short: "Write the transcript as SRT subtitles",
	Long:  `Write the transcript as SRT subtitles to stdout, or to a file with --output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		data, err := export.SRT(sess.Snapshot())
		if err != nil {
			return err
		}
		if output == "" {
			_, err := os.Stdout.Write(data)
			return err
		}
		if err := fsutil.WriteFile(output, data); err != nil {
			return fmt.Errorf("failed to write subtitles: %w", err)
		}
		fmt.Printf("Subtitles written to %s\n", output)
		return nil
	},
}

var transcriptClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the transcript of the current video",
	Long:  `Delete every transcript segment. Prompts for confirmation unless --force is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		tr := sess.Transcript()
		if tr.Len() == 0 {
			fmt.Println("No transcript to clear.")
			return nil
		}
		cleared, err := tr.Clear(stdinConfirm(force))
		if err := warnPersist(err); err != nil {
			return err
		}
		if !cleared {
			fmt.Println("Clear cancelled.")
			return nil
		}
		fmt.Println("Transcript cleared.")
		return nil
	},
}

var transcriptFollowCmd = &cobra.Command{
	Use:   "follow <file>",
	Short: "Capture transcript lines appended to a file",
	Long: `Watch a file and add each new line as a transcript segment stamped with the
player's current time. Point a speech-to-text tool's output at the file.
A line may start with a confidence and a tab ("0.87<TAB>text"). Stops on Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Printf("Following %s (Ctrl+C to stop)\n", args[0])
		count := 0
		err = sess.Transcript().Follow(cmd.Context(), args[0], sess.Player(), func(seg transcript.Segment) {
			count++
			fmt.Printf("[%s] %s\n", seg.Time(), seg.Text)
		})
		if err != nil {
			return err
		}
		fmt.Printf("\n%d segment(s) captured.\n", count)
		return nil
	},
}

func readInput(name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

func init() {
	transcriptImportCmd.Flags().String("lang", transcript.DefaultLanguage, "Language tag ("+strings.Join(transcript.Languages, ", ")+")")
	transcriptPromoteAllCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	transcriptClearCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	transcriptSRTCmd.Flags().StringP("output", "o", "", "Output file")

	transcriptCmd.AddCommand(transcriptImportCmd)
	transcriptCmd.AddCommand(transcriptListCmd)
	transcriptCmd.AddCommand(transcriptAddCmd)
	transcriptCmd.AddCommand(transcriptPromoteCmd)
	transcriptCmd.AddCommand(transcriptPromoteAllCmd)
	transcriptCmd.AddCommand(transcriptSRTCmd)
	transcriptCmd.AddCommand(transcriptClearCmd)
	transcriptCmd.AddCommand(transcriptFollowCmd)
	rootCmd.AddCommand(transcriptCmd)
}
