package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL     = "https://mpv.io/installation/"
	FfprobeInstallURL = "https://ffmpeg.org/download.html"
)

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
	Purpose    string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found (%s). Install from: %s", e.Name, e.Purpose, e.InstallURL)
}

// Dependency describes an external program reactvid can use.
type Dependency struct {
	Name       string
	InstallURL string
	Purpose    string
	// Required dependencies are needed for playback; optional ones add features.
	Required bool
}

// Known lists every external program reactvid looks for.
var Known = []Dependency{
	{Name: "mpv", InstallURL: MpvInstallURL, Purpose: "video playback", Required: true},
	{Name: "ffprobe", InstallURL: FfprobeInstallURL, Purpose: "reading local video durations"},
}

var lookPath = exec.LookPath

// Check reports a *DependencyError when d is not on PATH.
func Check(d Dependency) error {
	if _, err := lookPath(d.Name); err != nil {
		return &DependencyError{Name: d.Name, InstallURL: d.InstallURL, Purpose: d.Purpose}
	}
	return nil
}

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error {
	return Check(Known[0])
}

// CheckFfprobe checks if ffprobe is installed and available in PATH
func CheckFfprobe() error {
	return Check(Known[1])
}

// CheckAll checks all dependencies and returns a slice of errors for missing ones
func CheckAll() []error {
	var errs []error
	for _, d := range Known {
		if err := Check(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
