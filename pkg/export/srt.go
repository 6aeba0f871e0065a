package export

import "github.com/user/reactvid-cli/transcript"

// SRT renders the transcript as subtitles. Annotations are not required.
func SRT(s Snapshot) ([]byte, error) {
	if err := FormatSRT.Check(s); err != nil {
		return nil, err
	}
	return []byte(transcript.FormatSubtitles(s.Transcript)), nil
}
