package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/copilette/misty/internal/models"
	tu "github.com/copilette/misty/internal/testing"
)

// fakeSource serves canned asset listings and payloads.
type fakeSource struct {
	images  []models.ImageAsset
	audio   []models.AudioAsset
	listErr error
	// names in failFetch return an error instead of data
	failFetch map[string]bool
}

func (f *fakeSource) ListImages(ctx context.Context) ([]models.ImageAsset, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.images, nil
}

func (f *fakeSource) ListAudio(ctx context.Context) ([]models.AudioAsset, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.audio, nil
}

func (f *fakeSource) FetchImage(ctx context.Context, name string) ([]byte, error) {
	if f.failFetch[name] {
		return nil, errors.New("robot dropped the connection")
	}
	return []byte("image bytes for " + name), nil
}

func (f *fakeSource) FetchAudio(ctx context.Context, name string) ([]byte, error) {
	if f.failFetch[name] {
		return nil, errors.New("robot dropped the connection")
	}
	return []byte("audio bytes for " + name), nil
}

func TestBackup(t *testing.T) {
	t.Run("downloads every asset and writes the manifest", func(t *testing.T) {
		source := &fakeSource{
			images: []models.ImageAsset{{Name: "e_Joy.jpg"}, {Name: "e_Sleepy.jpg"}},
			audio:  []models.AudioAsset{{Name: "s_Awe.wav"}},
		}
		engine := NewBackupEngine(source)
		outputDir := filepath.Join(t.TempDir(), "backup")

		result, err := engine.Backup(context.Background(), nil, BackupOpts{
			OutputDir: outputDir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("Backup failed: %v", err)
		}

		if result.TotalAssets != 3 || result.Downloaded != 3 || result.Failed != 0 {
			t.Errorf("got total=%d downloaded=%d failed=%d, want 3/3/0",
				result.TotalAssets, result.Downloaded, result.Failed)
		}

		tu.AssertDirExists(t, filepath.Join(outputDir, "images"))
		tu.AssertDirExists(t, filepath.Join(outputDir, "audios"))
		tu.AssertFileExists(t, filepath.Join(outputDir, "images", "e_Joy.jpg"))
		tu.AssertFileExists(t, filepath.Join(outputDir, "audios", "s_Awe.wav"))

		content := tu.MustReadFile(t, filepath.Join(outputDir, "images", "e_Joy.jpg"))
		if content != "image bytes for e_Joy.jpg" {
			t.Errorf("unexpected file content: %q", content)
		}

		tu.AssertFileExists(t, result.ManifestPath)
		var manifest BackupResult
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("manifest is not valid JSON: %v", err)
		}
		if manifest.Downloaded != 3 || len(manifest.Results) != 3 {
			t.Errorf("manifest reports downloaded=%d results=%d, want 3/3",
				manifest.Downloaded, len(manifest.Results))
		}
	})

	t.Run("records per-asset failures without aborting", func(t *testing.T) {
		source := &fakeSource{
			images:    []models.ImageAsset{{Name: "good.jpg"}, {Name: "bad.jpg"}},
			failFetch: map[string]bool{"bad.jpg": true},
		}
		engine := NewBackupEngine(source)

		result, err := engine.Backup(context.Background(), nil, BackupOpts{
			OutputDir: filepath.Join(t.TempDir(), "backup"),
			RateLimit: 1000,
			Kinds:     []AssetKind{KindImage},
		})
		if err != nil {
			t.Fatalf("Backup failed: %v", err)
		}

		if result.Downloaded != 1 || result.Failed != 1 {
			t.Errorf("got downloaded=%d failed=%d, want 1/1", result.Downloaded, result.Failed)
		}
		for _, res := range result.Results {
			if res.Name == "bad.jpg" && (res.Success || res.Error == "") {
				t.Errorf("expected a failure record for bad.jpg, got %+v", res)
			}
		}
	})

	t.Run("restricts to the requested kinds", func(t *testing.T) {
		source := &fakeSource{
			images: []models.ImageAsset{{Name: "e_Joy.jpg"}},
			audio:  []models.AudioAsset{{Name: "s_Awe.wav"}},
		}
		engine := NewBackupEngine(source)
		outputDir := filepath.Join(t.TempDir(), "backup")

		result, err := engine.Backup(context.Background(), nil, BackupOpts{
			OutputDir: outputDir,
			RateLimit: 1000,
			Kinds:     []AssetKind{KindAudio},
		})
		if err != nil {
			t.Fatalf("Backup failed: %v", err)
		}

		if result.TotalAssets != 1 {
			t.Errorf("got %d assets, want the 1 audio clip", result.TotalAssets)
		}
		tu.AssertFileExists(t, filepath.Join(outputDir, "audios", "s_Awe.wav"))
	})

	t.Run("a listing failure aborts the backup", func(t *testing.T) {
		engine := NewBackupEngine(&fakeSource{listErr: fmt.Errorf("robot unreachable")})

		if _, err := engine.Backup(context.Background(), nil, BackupOpts{
			OutputDir: filepath.Join(t.TempDir(), "backup"),
		}); err == nil {
			t.Fatal("expected an error when listing fails")
		}
	})

	t.Run("a nil source reports not connected", func(t *testing.T) {
		engine := NewBackupEngine(nil)
		if _, err := engine.Backup(context.Background(), nil, BackupOpts{}); err == nil {
			t.Fatal("expected an error with no source")
		}
	})

	t.Run("reports progress", func(t *testing.T) {
		source := &fakeSource{images: []models.ImageAsset{{Name: "e_Joy.jpg"}}}
		engine := NewBackupEngine(source)

		progress := make(chan ProgressUpdate, 32)
		_, err := engine.Backup(context.Background(), progress, BackupOpts{
			OutputDir: filepath.Join(t.TempDir(), "backup"),
			RateLimit: 1000,
			Kinds:     []AssetKind{KindImage},
		})
		if err != nil {
			t.Fatalf("Backup failed: %v", err)
		}
		close(progress)

		seen := make(map[Phase]bool)
		for update := range progress {
			seen[update.Phase] = true
		}
		for _, phase := range []Phase{ListAssets, DownloadAssets, WriteManifest} {
			if !seen[phase] {
				t.Errorf("no progress update for phase %s", phase)
			}
		}
	})
}
