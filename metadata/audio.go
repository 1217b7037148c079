package metadata

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"

	"github.com/dlages/filescope/filetype"
)

// extractAudio merges tag metadata and stream properties. Stream info is
// strictly best-effort and its failure is silent, mirroring how tag
// readers expose optional technical attributes; tag failures produce one
// explanatory field.
func (e *Extractor) extractAudio(path string, rec Record) {
	if e.caps.AudioTags == nil && e.caps.AudioStreamInfo == nil {
		rec["Audio Data"] = "Audio tag support not available"
		return
	}

	if e.caps.AudioStreamInfo != nil {
		if fields, err := e.caps.AudioStreamInfo(path); err == nil {
			for k, v := range fields {
				rec[k] = v
			}
		}
	}

	if e.caps.AudioTags != nil {
		fields, err := e.caps.AudioTags(path)
		if err != nil {
			rec["Audio Data"] = fmt.Sprintf("Error extracting audio metadata: %v", err)
			return
		}
		for k, v := range fields {
			rec[k] = v
		}
	}
}

// readAudioTags maps container tags to canonical field names and
// preserves the raw tag map under namespaced keys.
func readAudioTags(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	out := Record{}
	for key, value := range m.Raw() {
		out["Tag: "+key] = fmt.Sprintf("%v", value)
	}

	if v := m.Title(); v != "" {
		out["Title"] = v
	}
	if v := m.Artist(); v != "" {
		out["Artist"] = v
	}
	if v := m.Album(); v != "" {
		out["Album"] = v
	}
	if v := m.Year(); v != 0 {
		out["Date"] = strconv.Itoa(v)
	}
	if v := m.Genre(); v != "" {
		out["Genre"] = v
	}
	if n, _ := m.Track(); n != 0 {
		out["Track"] = strconv.Itoa(n)
	}
	if v := m.Composer(); v != "" {
		out["Composer"] = v
	}
	return out, nil
}

// readAudioStreamInfo decodes MPEG frames to derive duration, average
// bitrate, sample rate and channel count. Only MP3 exposes these without
// a media framework; other audio formats return no fields.
func readAudioStreamInfo(path string) (Record, error) {
	if filetype.Extension(path) != ".mp3" {
		return Record{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var (
		frame      mp3.Frame
		skipped    int
		frames     int64
		bitrateSum int64
		sampleRate int
		channels   int
		duration   float64
	)

	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			break
		}
		header := frame.Header()
		duration += frame.Duration().Seconds()
		bitrateSum += int64(header.BitRate())
		sampleRate = int(header.SampleRate())
		if header.ChannelMode() == mp3.SingleChannel {
			channels = 1
		} else {
			channels = 2
		}
		frames++
	}

	if frames == 0 {
		return nil, fmt.Errorf("no MPEG frames found")
	}

	return Record{
		"Duration":    formatDuration(duration),
		"Bitrate":     fmt.Sprintf("%.0f kbps", float64(bitrateSum/frames)/1000),
		"Sample Rate": fmt.Sprintf("%d Hz", sampleRate),
		"Channels":    channels,
	}, nil
}

// formatDuration renders seconds as H:MM:SS, or M:SS under an hour.
func formatDuration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
