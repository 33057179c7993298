package transcoder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"waveforge/models"
)

// writeScript drops an executable shell script standing in for ffmpeg.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("Failed to write fake encoder: %v", err)
	}
	return path
}

func TestBuildArgs(t *testing.T) {
	cases := []struct {
		format models.Format
		codec  string
	}{
		{models.FormatMP3, "libmp3lame"},
		{models.FormatAAC, "aac"},
		{models.FormatWAV, "pcm_s16le"},
	}

	for _, tc := range cases {
		args := buildArgs("in.webm", "out."+string(tc.format), tc.format, "192k")
		joined := strings.Join(args, " ")
		want := "-i in.webm -vn -acodec " + tc.codec + " -ar 44100 -ac 2 -b:a 192k -y out." + string(tc.format)
		if joined != want {
			t.Errorf("buildArgs(%s) = %q, want %q", tc.format, joined, want)
		}
	}
}

func TestTranscodeSuccess(t *testing.T) {
	// The fake encoder copies its input ($2) to its final argument.
	bin := writeScript(t, "for last; do :; done\ncp \"$2\" \"$last\"\n")

	dir := t.TempDir()
	input := filepath.Join(dir, "in.webm")
	output := filepath.Join(dir, "out.mp3")
	if err := os.WriteFile(input, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := New(bin).Transcode(context.Background(), input, output, models.FormatMP3, "128k"); err != nil {
		t.Fatalf("Transcode failed: %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	if string(got) != "audio" {
		t.Errorf("Output content = %q, want %q", got, "audio")
	}
}

func TestTranscodeProcessFailure(t *testing.T) {
	bin := writeScript(t, "echo 'Unsupported codec in stream 0' >&2\nexit 3\n")

	err := New(bin).Transcode(context.Background(), "in.webm", "out.mp3", models.FormatMP3, "128k")
	if err == nil {
		t.Fatal("Expected error for non-zero exit, got nil")
	}

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("Expected *ProcessError, got %T: %v", err, err)
	}
	if procErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", procErr.ExitCode)
	}
	if !strings.Contains(procErr.Diagnostics, "Unsupported codec") {
		t.Errorf("Diagnostics = %q, want captured stderr", procErr.Diagnostics)
	}
}

func TestTranscodeSpawnFailure(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "does-not-exist")

	err := New(bin).Transcode(context.Background(), "in.webm", "out.mp3", models.FormatMP3, "128k")
	if err == nil {
		t.Fatal("Expected error for missing binary, got nil")
	}

	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("Expected *SpawnError, got %T: %v", err, err)
	}

	// A spawn failure must not be mistaken for an encoding failure.
	var procErr *ProcessError
	if errors.As(err, &procErr) {
		t.Error("Spawn failure should not match *ProcessError")
	}
}
