package models

import "fmt"

// Format is one of the supported audio output formats.
type Format string

const (
	FormatMP3 Format = "mp3"
	FormatWAV Format = "wav"
	FormatAAC Format = "aac"
)

// Formats lists the supported formats in the order the artifact store probes
// them when resolving a job identifier.
var Formats = []Format{FormatMP3, FormatWAV, FormatAAC}

// DefaultBitrate is applied when a conversion request does not specify one.
const DefaultBitrate = "128k"

// ParseFormat validates a requested output format. An empty string selects mp3.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatMP3, nil
	}
	for _, f := range Formats {
		if s == string(f) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// ContentType returns the MIME type served for downloads of this format.
func (f Format) ContentType() string {
	switch f {
	case FormatWAV:
		return "audio/wav"
	case FormatAAC:
		return "audio/aac"
	default:
		return "audio/mpeg"
	}
}

// ConversionRequest carries one inbound conversion. It lives only for the
// duration of the request handling it.
type ConversionRequest struct {
	URL     string
	Format  Format
	Bitrate string
}

// ConversionResult references a completed conversion. OutputPath is internal
// and never exposed over the API.
type ConversionResult struct {
	FileID     string
	Format     Format
	OutputPath string
	Size       int64
}
