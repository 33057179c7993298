package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"waveforge/logger"
	"waveforge/models"
)

// codecFor maps each supported output format to the ffmpeg codec selected
// for it.
var codecFor = map[models.Format]string{
	models.FormatMP3: "libmp3lame",
	models.FormatAAC: "aac",
	models.FormatWAV: "pcm_s16le",
}

const (
	sampleRate = "44100"
	channels   = "2"
)

// ProcessError reports an encoder run that started but exited non-zero.
// Diagnostics holds the captured stderr of the process.
type ProcessError struct {
	ExitCode    int
	Diagnostics string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("encoder exited with code %d: %s", e.ExitCode, e.Diagnostics)
}

// SpawnError reports that the encoder process could not be started at all
// (binary missing or not executable). Callers treat this as the encoder
// being unavailable rather than as a bad input.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("encoder unavailable: %v", e.Err) }

func (e *SpawnError) Unwrap() error { return e.Err }

// Transcoder invokes an external ffmpeg process to convert audio files.
type Transcoder struct {
	BinPath string
}

// New returns a Transcoder using the given ffmpeg binary.
func New(binPath string) *Transcoder {
	return &Transcoder{BinPath: binPath}
}

// buildArgs assembles the fixed encoder invocation: drop any video stream,
// select the codec for the format, force 44100 Hz stereo, apply the requested
// bitrate and allow overwriting the output path.
func buildArgs(inputPath, outputPath string, format models.Format, bitrate string) []string {
	return []string{
		"-i", inputPath,
		"-vn",
		"-acodec", codecFor[format],
		"-ar", sampleRate,
		"-ac", channels,
		"-b:a", bitrate,
		"-y",
		outputPath,
	}
}

// Transcode runs the encoder on inputPath and writes outputPath. The call
// blocks until the child process terminates; no timeout is enforced here, a
// caller needing bounded latency must cancel ctx. Exit code 0 is necessary
// but not sufficient for success: callers must still verify the output file.
func (t *Transcoder) Transcode(ctx context.Context, inputPath, outputPath string, format models.Format, bitrate string) error {
	args := buildArgs(inputPath, outputPath, format, bitrate)
	logger.Debugf("running %s %v", t.BinPath, args)

	cmd := exec.CommandContext(ctx, t.BinPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return &SpawnError{Err: err}
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProcessError{
				ExitCode:    exitErr.ExitCode(),
				Diagnostics: stderr.String(),
			}
		}
		return &SpawnError{Err: err}
	}

	logger.Debugf("encoded %s -> %s (%s, %s)", inputPath, outputPath, format, bitrate)
	return nil
}
