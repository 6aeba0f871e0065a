package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/db"
	"github.com/user/reactvid-cli/logger"
	"github.com/user/reactvid-cli/mpv"
	"github.com/user/reactvid-cli/pkg/timeutil"
	"github.com/user/reactvid-cli/player"
	"github.com/user/reactvid-cli/session"
	"github.com/user/reactvid-cli/transcript"
)

// errNoCurrentVideo is returned by commands that act on the current video
// before one has been opened.
var errNoCurrentVideo = errors.New("no video loaded (run 'reactvid open <url|file>' first)")

// openStore opens the configured KV backend. Tests swap it out.
var openStore = db.OpenFromConfig

// newSession opens the configured store and returns an empty session and
// a cleanup func that releases both.
func newSession() (*session.Session, func(), error) {
	kv, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	order, err := annotation.ParseSortOrder(cfg.SortOrder)
	if err != nil {
		kv.Close()
		return nil, nil, err
	}

	sess := session.New(kv, session.Options{Namespace: cfg.Namespace, SortOrder: order})
	cleanup := func() {
		if err := sess.Close(); err != nil {
			logger.Warn("closing player: %v", err)
		}
		if err := kv.Close(); err != nil {
			logger.Warn("closing storage: %v", err)
		}
	}
	return sess, cleanup, nil
}

// currentSession restores the last opened video. Timestamps come from --at
// when given, otherwise from a running mpv, otherwise 0.
func currentSession() (*session.Session, func(), error) {
	sess, cleanup, err := newSession()
	if err != nil {
		return nil, nil, err
	}

	ok, err := sess.Restore(clock())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if !ok {
		cleanup()
		return nil, nil, errNoCurrentVideo
	}
	return sess, cleanup, nil
}

// clock picks the player CLI commands stamp annotations with.
func clock() player.Player {
	if atFlag != "" {
		p := player.NewManual(0)
		p.Seek(float64(timeutil.Parse(atFlag)))
		return p
	}

	client := mpv.NewClient(cfg.Mpv.Socket)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := client.Ready(ctx); err == nil {
		logger.Debug("using mpv at %s for timestamps", client.SocketPath())
		return client
	}
	logger.Debug("mpv not reachable; timestamps default to 0:00 (use --at)")
	return player.NewManual(0)
}

// stdinConfirm asks on the terminal, or approves everything when force is set.
func stdinConfirm(force bool) annotation.Confirmer {
	return annotation.ConfirmFunc(func(prompt string) (bool, error) {
		if force {
			return true, nil
		}
		fmt.Printf("%s [y/N] ", prompt)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return false, nil
		}
		answer := strings.TrimSpace(line)
		return answer == "y" || answer == "Y", nil
	})
}

// warnPersist prints a non-fatal persistence failure. Other errors are returned.
func warnPersist(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, annotation.ErrPersist) || errors.Is(err, transcript.ErrPersist) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	return err
}
