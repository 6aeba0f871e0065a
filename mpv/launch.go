package mpv

import (
	"os"
	"os/exec"

	"github.com/user/reactvid-cli/deps"
)

// Launch starts mpv on target (a file path or any URL mpv can stream) with
// the IPC socket enabled. It checks that mpv is installed first.
// The returned *exec.Cmd can be used to wait for or kill the process.
func Launch(target, socketPath string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	// A stale socket from a crashed session blocks mpv from listening.
	_ = os.Remove(socketPath)

	cmd := exec.Command("mpv",
		"--input-ipc-server="+socketPath,
		"--force-window=yes",
		"--keep-open=yes",
		target,
	)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}
