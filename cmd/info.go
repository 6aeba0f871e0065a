package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/reactvid-cli/pkg/timeutil"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the current video and its annotation summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		v := sess.Video()
		fmt.Printf("Title:      %s\n", v.Title)
		fmt.Printf("Platform:   %s\n", v.Provider.DisplayName())
		fmt.Printf("ID:         %s\n", v.ID)
		if url := v.WatchURL(); url != "" {
			fmt.Printf("URL:        %s\n", url)
		}
		if v.IsLocal() {
			fmt.Printf("File:       %s\n", v.LocalPath)
		}
		if v.DurationSeconds > 0 {
			fmt.Printf("Duration:   %s\n", timeutil.Format(v.DurationSeconds))
		} else {
			fmt.Printf("Duration:   unknown (assuming %s)\n", timeutil.Format(v.Duration()))
		}

		st := sess.Annotations().Stats()
		fmt.Println()
		fmt.Printf("Comments:   %d\n", st.Comments)
		fmt.Printf("Reactions:  %d\n", st.Reactions)
		if st.Total() > 0 {
			fmt.Printf("Average at: %s\n", timeutil.Format(float64(st.AvgTimestamp)))
		}
		for _, ec := range st.EmojiCounts {
			fmt.Printf("  %s  %d\n", ec.Emoji, ec.Count)
		}

		tr := sess.Transcript()
		fmt.Printf("Transcript: %d segment(s), %s\n", tr.Len(), tr.Language())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
