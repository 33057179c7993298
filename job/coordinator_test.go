package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"waveforge/artifact"
	"waveforge/failures"
	"waveforge/models"
	"waveforge/success"
)

func TestMain(m *testing.M) {
	// The coordinator records terminal outcomes; give the history stores a
	// scratch home so those writes succeed.
	dir, err := os.MkdirTemp("", "waveforge-job-test")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := failures.Init(filepath.Join(dir, "failures.db")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := success.Init(filepath.Join(dir, "success.db")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	code := m.Run()

	success.Close()
	failures.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

// fakeFetcher writes fixed bytes to the destination, or fails.
type fakeFetcher struct {
	payload []byte
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, destPath string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(destPath, f.payload, 0644)
}

// fakeTranscoder copies input to output, or fails, or silently produces
// nothing while still reporting success.
type fakeTranscoder struct {
	err        error
	skipOutput bool
	calls      int
}

func (tr *fakeTranscoder) Transcode(ctx context.Context, inputPath, outputPath string, format models.Format, bitrate string) error {
	tr.calls++
	if tr.err != nil {
		return tr.err
	}
	if tr.skipOutput {
		return nil
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func testRequest() models.ConversionRequest {
	return models.ConversionRequest{
		URL:     "https://example.com/a.webm",
		Format:  models.FormatMP3,
		Bitrate: models.DefaultBitrate,
	}
}

func TestConvertSuccess(t *testing.T) {
	dir := t.TempDir()
	coord := NewCoordinator(dir, &fakeFetcher{payload: []byte("audio")}, &fakeTranscoder{})

	result, err := coord.Convert(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if !artifact.ValidateID(result.FileID) {
		t.Errorf("FileID %q is not a valid identifier", result.FileID)
	}
	if result.Size != int64(len("audio")) {
		t.Errorf("Size = %d, want %d", result.Size, len("audio"))
	}

	// Exactly one output artifact and zero input artifacts remain.
	names := listDir(t, dir)
	if len(names) != 1 {
		t.Fatalf("Expected exactly 1 file on disk, got %v", names)
	}
	if names[0] != result.FileID+"_output.mp3" {
		t.Errorf("Surviving file = %q, want output artifact", names[0])
	}

	// The outcome is recorded in the success history.
	record, err := success.GetSuccess(result.FileID)
	if err != nil {
		t.Fatalf("GetSuccess failed: %v", err)
	}
	if record == nil {
		t.Fatal("Expected a success record for the finished job")
	}
	if record.Format != "mp3" {
		t.Errorf("Recorded format = %q, want mp3", record.Format)
	}
}

func TestConvertFetchFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	tr := &fakeTranscoder{}
	coord := NewCoordinator(dir, &fakeFetcher{err: errors.New("connection refused")}, tr)

	if _, err := coord.Convert(context.Background(), testRequest()); err == nil {
		t.Fatal("Expected error when fetch fails")
	}

	if tr.calls != 0 {
		t.Error("Transcoder should not run after a fetch failure")
	}
	if names := listDir(t, dir); len(names) != 0 {
		t.Errorf("Expected empty dir after fetch failure, got %v", names)
	}
}

func TestConvertTranscodeFailureUnwindsBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	coord := NewCoordinator(dir,
		&fakeFetcher{payload: []byte("audio")},
		&fakeTranscoder{err: errors.New("encoder exited with code 1")})

	_, err := coord.Convert(context.Background(), testRequest())
	if err == nil {
		t.Fatal("Expected error when transcode fails")
	}

	if names := listDir(t, dir); len(names) != 0 {
		t.Errorf("Expected empty dir after transcode failure, got %v", names)
	}
}

func TestConvertMissingOutputIsAFailure(t *testing.T) {
	dir := t.TempDir()
	coord := NewCoordinator(dir,
		&fakeFetcher{payload: []byte("audio")},
		&fakeTranscoder{skipOutput: true})

	_, err := coord.Convert(context.Background(), testRequest())
	if !errors.Is(err, ErrOutputMissing) {
		t.Fatalf("err = %v, want ErrOutputMissing", err)
	}

	if names := listDir(t, dir); len(names) != 0 {
		t.Errorf("Expected empty dir after verification failure, got %v", names)
	}
}

func TestConvertFreshIdentifierPerInvocation(t *testing.T) {
	dir := t.TempDir()
	coord := NewCoordinator(dir, &fakeFetcher{payload: []byte("audio")}, &fakeTranscoder{})

	first, err := coord.Convert(context.Background(), testRequest())
	if err != nil {
		t.Fatal(err)
	}
	second, err := coord.Convert(context.Background(), testRequest())
	if err != nil {
		t.Fatal(err)
	}
	if first.FileID == second.FileID {
		t.Error("Identical source URLs must still get distinct job identifiers")
	}
}

// archiveRecorder captures what the coordinator hands to the archiver.
type archiveRecorder struct {
	filenames []string
	fail      bool
}

func (a *archiveRecorder) Archive(ctx context.Context, filename string, reader io.Reader) error {
	a.filenames = append(a.filenames, filename)
	if a.fail {
		return errors.New("bucket unreachable")
	}
	return nil
}

func TestConvertArchivesOutput(t *testing.T) {
	dir := t.TempDir()
	coord := NewCoordinator(dir, &fakeFetcher{payload: []byte("audio")}, &fakeTranscoder{})
	rec := &archiveRecorder{}
	coord.Archiver = rec

	result, err := coord.Convert(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if len(rec.filenames) != 1 || rec.filenames[0] != result.FileID+"_output.mp3" {
		t.Errorf("Archived filenames = %v, want the output artifact", rec.filenames)
	}
}

func TestConvertArchiveFailureIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	coord := NewCoordinator(dir, &fakeFetcher{payload: []byte("audio")}, &fakeTranscoder{})
	coord.Archiver = &archiveRecorder{fail: true}

	result, err := coord.Convert(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Convert should succeed despite archive failure, got %v", err)
	}
	if names := listDir(t, dir); len(names) != 1 || names[0] != result.FileID+"_output.mp3" {
		t.Errorf("Output artifact should still be exposed, dir = %v", names)
	}
}
