package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/config"
	"github.com/user/reactvid-cli/db"
	"github.com/user/reactvid-cli/platform"
	"github.com/user/reactvid-cli/session"
)

// sharedKV keeps one memory store alive across command runs.
type sharedKV struct {
	db.KV
	failSets bool
}

func (k *sharedKV) Set(key, value string) error {
	if k.failSets && !strings.HasSuffix(key, "_current") {
		return errors.New("disk full")
	}
	return k.KV.Set(key, value)
}

func (k *sharedKV) Close() error { return nil }

type cli struct {
	t      *testing.T
	config string
	kv     *sharedKV
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"REACTVID_NAMESPACE", "REACTVID_STORAGE_BACKEND", "REACTVID_MPV_SOCKET", "REACTVID_OUTPUT_DIR", "REACTVID_SORT_ORDER", "REACTVID_DATA_DIR"} {
		t.Setenv(name, "")
	}

	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("namespace = \"reactvid\"\noutput_dir = %q\n\n[storage]\nbackend = \"memory\"\n\n[mpv]\nsocket = %q\n",
		filepath.Join(dir, "out"), filepath.Join(dir, "mpv.sock"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	kv := &sharedKV{KV: db.NewMemoryKV()}
	prev := openStore
	openStore = func(c *config.Config) (db.KV, error) {
		if c.Storage.Backend != config.BackendMemory {
			return nil, fmt.Errorf("unexpected backend %q", c.Storage.Backend)
		}
		return kv, nil
	}
	t.Cleanup(func() { openStore = prev })

	return &cli{t: t, config: path, kv: kv}
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes rootCmd with stdin fed from input and returns what the
// command printed.
func (c *cli) run(input string, args ...string) (string, string, error) {
	t := c.t
	t.Helper()

	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)
	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	_, err = inW.WriteString(input)
	require.NoError(t, err)
	inW.Close()

	oldOut, oldErr, oldIn := os.Stdout, os.Stderr, os.Stdin
	os.Stdout, os.Stderr, os.Stdin = outW, errW, inR
	defer func() {
		os.Stdout, os.Stderr, os.Stdin = oldOut, oldErr, oldIn
		inR.Close()
	}()

	var stdout, stderr bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _, _ = io.Copy(&stdout, outR) }()
	go func() { defer wg.Done(); _, _ = io.Copy(&stderr, errR) }()

	resetFlags(rootCmd)
	rootCmd.SetArgs(append([]string{"--config", c.config}, args...))
	runErr := rootCmd.Execute()

	outW.Close()
	errW.Close()
	wg.Wait()
	return stdout.String(), stderr.String(), runErr
}

func (c *cli) annotations(videoID string) []annotation.Annotation {
	return annotation.Load(c.kv, "reactvid", videoID, "").List()
}

func TestCommandsOnMemoryStore(t *testing.T) {
	c := newCLI(t)
	video := platform.Video{Provider: platform.YouTube, ID: "dQw4w9WgXcQ", Title: "Test Video", DurationSeconds: 200}
	require.NoError(t, session.New(c.kv, session.Options{Namespace: "reactvid"}).Load(video, nil))

	out, _, err := c.run("", "comment", "add", "--at", "1:05", "great", "moment")
	require.NoError(t, err)
	assert.Contains(t, out, "Comment added at 1:05")

	out, _, err = c.run("", "react", "--at", "0:10", "🔥")
	require.NoError(t, err)
	assert.Contains(t, out, "Reaction 🔥 added at 0:10")

	out, _, err = c.run("", "comment", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "great moment")
	assert.Contains(t, out, "1 comment(s), 1 reaction(s), sorted newest first.")

	exportDir := filepath.Join(t.TempDir(), "exports")
	out, _, err = c.run("", "export", "json", "--dir", exportDir)
	require.NoError(t, err)
	jsonPath := filepath.Join(exportDir, "Test_Video_comments.json")
	assert.Contains(t, out, "Exported JSON to "+jsonPath)

	out, _, err = c.run("", "export", "pdf", "--dir", exportDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported PDF to")
	pdf, err := os.ReadFile(filepath.Join(exportDir, "Test_Video_comments.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	var comment annotation.Annotation
	for _, a := range c.annotations(video.ID) {
		if !a.IsReaction() {
			comment = a
		}
	}
	require.NotEmpty(t, comment.ID)

	out, _, err = c.run("n\n", "comment", "delete", shortID(comment.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion cancelled.")
	assert.Len(t, c.annotations(video.ID), 2)

	out, _, err = c.run("", "comment", "delete", shortID(comment.ID), "--force")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Comment %s deleted.", shortID(comment.ID)))
	remaining := c.annotations(video.ID)
	require.Len(t, remaining, 1)

	// --force from the previous run must not carry over.
	out, _, err = c.run("n\n", "comment", "delete", shortID(remaining[0].ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion cancelled.")
	assert.Len(t, c.annotations(video.ID), 1)

	out, _, err = c.run("", "import", jsonPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 annotation(s) and 0 transcript segment(s) for Test Video.")
	assert.Len(t, c.annotations(video.ID), 2)

	_, _, err = c.run("", "comment", "delete", "zzzz", "--force")
	assert.ErrorIs(t, err, annotation.ErrNotFound)
}

func TestCommandsWarnOnPersistFailure(t *testing.T) {
	c := newCLI(t)
	video := platform.Video{Provider: platform.YouTube, ID: "dQw4w9WgXcQ", Title: "Test Video"}
	require.NoError(t, session.New(c.kv, session.Options{Namespace: "reactvid"}).Load(video, nil))

	c.kv.failSets = true
	out, errOut, err := c.run("", "comment", "add", "--at", "0:05", "offline")
	require.NoError(t, err)
	assert.Contains(t, out, "Comment added at 0:05")
	assert.Contains(t, errOut, "Warning:")
	assert.Contains(t, errOut, "disk full")
	assert.Empty(t, c.annotations(video.ID))
}

func TestCommandsRequireCurrentVideo(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("", "export", "csv")
	assert.ErrorIs(t, err, errNoCurrentVideo)
}
