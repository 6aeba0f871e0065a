package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/session"
)

// shortIDLen is how much of an annotation id list output shows.
const shortIDLen = 8

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage timestamped comments",
	Long:  `Add, list, delete and clear the comments and reactions of the current video.`,
}

var commentAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a comment at the current timestamp",
	Long:  `Add a comment at the player's current position, or at the time given with --at.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addAnnotation(strings.Join(args, " "), annotation.KindComment, "")
	},
}

var reactCmd = &cobra.Command{
	Use:   "react <emoji> [text]",
	Short: "Add an emoji reaction at the current timestamp",
	Long: `Add a reaction at the player's current position, or at the time given with --at.
Without text the reaction is labelled with its emoji. Suggested emoji: ` + strings.Join(annotation.Reactions, " "),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		emoji := args[0]
		text := strings.Join(args[1:], " ")
		if strings.TrimSpace(text) == "" {
			text = "Reacted with " + emoji
		}
		return addAnnotation(text, annotation.KindReaction, emoji)
	},
}

func addAnnotation(text string, kind annotation.Kind, emoji string) error {
	sess, cleanup, err := currentSession()
	if err != nil {
		return err
	}
	defer cleanup()

	a, err := sess.Annotate(text, kind, emoji)
	if a.ID == "" {
		return fmt.Errorf("failed to add %s: %w", kind, err)
	}
	if err := warnPersist(err); err != nil {
		return err
	}

	if a.IsReaction() {
		fmt.Printf("Reaction %s added at %s (%s)\n", a.Emoji, a.Time(), shortID(a.ID))
	} else {
		fmt.Printf("Comment added at %s (%s)\n", a.Time(), shortID(a.ID))
	}
	return nil
}

var commentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List comments and reactions for the current video",
	Long:  `Display the annotations of the current video as a table in the configured sort order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		store := sess.Annotations()
		items := store.List()
		if len(items) == 0 {
			fmt.Println("No comments yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTime\tType\tText")
		fmt.Fprintln(w, "--\t----\t----\t----")
		for _, a := range items {
			text := a.Text
			if a.IsReaction() {
				text = a.Emoji + " " + text
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(a.ID), a.Time(), a.Kind, text)
		}
		w.Flush()

		st := store.Stats()
		fmt.Printf("\n%d comment(s), %d reaction(s), sorted %s.\n", st.Comments, st.Reactions, sortLabel(store.SortOrder()))
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a comment",
	Long:  `Delete a comment or reaction by id. A unique prefix of the id is enough. Prompts for confirmation unless --force is used.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		a, err := findAnnotation(sess, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("[%s] %s\n", a.Time(), a.Text)

		ok, err := stdinConfirm(force).Confirm("Are you sure you want to delete this comment?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Deletion cancelled.")
			return nil
		}

		if err := warnPersist(sess.Annotations().Remove(a.ID)); err != nil {
			return err
		}
		fmt.Printf("Comment %s deleted.\n", shortID(a.ID))
		return nil
	},
}

var commentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every comment of the current video",
	Long:  `Delete all comments and reactions of the current video. Prompts for confirmation unless --force is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		sess, cleanup, err := currentSession()
		if err != nil {
			return err
		}
		defer cleanup()

		store := sess.Annotations()
		n := store.Len()
		if n == 0 {
			fmt.Println("No comments to clear.")
			return nil
		}

		cleared, err := store.ClearAll(stdinConfirm(force))
		if err := warnPersist(err); err != nil {
			return err
		}
		if !cleared {
			fmt.Println("Clear cancelled.")
			return nil
		}
		fmt.Printf("%d comment(s) deleted.\n", n)
		return nil
	},
}

// findAnnotation resolves a full id or a unique id prefix.
func findAnnotation(sess *session.Session, id string) (annotation.Annotation, error) {
	store := sess.Annotations()
	if a, ok := store.Get(id); ok {
		return a, nil
	}

	var matches []annotation.Annotation
	for _, a := range store.List() {
		if strings.HasPrefix(a.ID, id) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return annotation.Annotation{}, fmt.Errorf("comment %s: %w", id, annotation.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return annotation.Annotation{}, fmt.Errorf("comment id %s is ambiguous (%d matches)", id, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func sortLabel(order annotation.SortOrder) string {
	if order == annotation.Ascending {
		return "oldest first"
	}
	return "newest first"
}

func init() {
	commentDeleteCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	commentClearCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentListCmd)
	commentCmd.AddCommand(commentDeleteCmd)
	commentCmd.AddCommand(commentClearCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(reactCmd)
}
