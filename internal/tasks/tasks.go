// package tasks implements long-running operations against a robot.
//
// The core abstraction is BackupEngine, which pulls every image and audio
// asset off a robot's local storage concurrently. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/copilette/misty/internal/models"
	"github.com/copilette/misty/internal/shared"
	"golang.org/x/time/rate"
)

// AssetKind distinguishes the robot's asset stores.
type AssetKind string

const (
	KindImage AssetKind = "image"
	KindAudio AssetKind = "audio"
)

// AssetSource abstracts the robot client methods the backup engine needs.
type AssetSource interface {
	ListImages(ctx context.Context) ([]models.ImageAsset, error)
	ListAudio(ctx context.Context) ([]models.AudioAsset, error)
	FetchImage(ctx context.Context, name string) ([]byte, error)
	FetchAudio(ctx context.Context, name string) ([]byte, error)
}

// AssetResult represents the outcome of downloading a single asset.
type AssetResult struct {
	Kind    AssetKind `json:"kind"`
	Name    string    `json:"name"`
	Path    string    `json:"path,omitempty"`
	Size    int       `json:"size_bytes"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// BackupResult contains all data from a full backup operation.
type BackupResult struct {
	TotalAssets     int           `json:"total_assets"`
	Downloaded      int           `json:"downloaded"`
	Failed          int           `json:"failed"`
	OutputDirectory string        `json:"output_directory"`
	ManifestPath    string        `json:"manifest_path,omitempty"`
	Results         []AssetResult `json:"results"`
}

// BackupOpts contains configuration for asset backups.
type BackupOpts struct {
	OutputDir  string      // Base output directory (default: misty_backup_{epoch})
	NumWorkers int         // Concurrent downloads (default: 4)
	RateLimit  float64     // Requests per second against the robot (default: 4)
	Kinds      []AssetKind // Asset kinds to back up (default: images and audio)
}

type assetJob struct {
	kind AssetKind
	name string
}

// BackupEngine downloads robot assets to local disk.
type BackupEngine struct {
	source AssetSource
}

// NewBackupEngine creates a BackupEngine reading from the given source.
func NewBackupEngine(source AssetSource) *BackupEngine {
	return &BackupEngine{source: source}
}

// sendProgress sends a progress update through the channel without blocking.
// A full or absent channel drops the update rather than stalling a download.
func (e *BackupEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Backup downloads every asset of the requested kinds concurrently with
// rate limiting and progress tracking, then writes a manifest file
// summarizing the results. The robot's firmware throttles poorly under
// load, so downloads are paced by opts.RateLimit.
func (e *BackupEngine) Backup(ctx context.Context, progress chan<- ProgressUpdate, opts BackupOpts) (*BackupResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: asset source not initialized", shared.ErrNotConnected)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("misty_backup_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 4.0
	}
	if len(opts.Kinds) == 0 {
		opts.Kinds = []AssetKind{KindImage, KindAudio}
	}

	jobList, err := e.listAssets(ctx, progress, opts.Kinds)
	if err != nil {
		return nil, err
	}

	for _, kind := range opts.Kinds {
		dir := filepath.Join(opts.OutputDir, string(kind)+"s")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	result := &BackupResult{
		TotalAssets:     len(jobList),
		OutputDirectory: opts.OutputDir,
		Results:         make([]AssetResult, 0, len(jobList)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan assetJob, len(jobList))
	results := make(chan AssetResult, len(jobList))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.downloadWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	go func() {
		for _, job := range jobList {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			case jobs <- job:
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Downloaded++
			e.sendProgress(progress, downloadCompletedUpdate(completed, len(jobList), res))
		} else {
			result.Failed++
			e.sendProgress(progress, downloadFailedUpdate(completed, len(jobList), res))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "backup_manifest.json")
	e.sendProgress(progress, writingManifestUpdate(manifestPath))

	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("backup completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("backup completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// listAssets fetches the asset listings for each requested kind.
func (e *BackupEngine) listAssets(ctx context.Context, progress chan<- ProgressUpdate, kinds []AssetKind) ([]assetJob, error) {
	var jobs []assetJob
	for i, kind := range kinds {
		e.sendProgress(progress, listingAssetsUpdate(i+1, len(kinds), kind))

		switch kind {
		case KindImage:
			images, err := e.source.ListImages(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list images: %w", err)
			}
			for _, img := range images {
				jobs = append(jobs, assetJob{kind: KindImage, name: img.Name})
			}
		case KindAudio:
			clips, err := e.source.ListAudio(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list audio: %w", err)
			}
			for _, clip := range clips {
				jobs = append(jobs, assetJob{kind: KindAudio, name: clip.Name})
			}
		default:
			return nil, fmt.Errorf("%w: unknown asset kind %q", shared.ErrInvalidArgument, kind)
		}
	}
	return jobs, nil
}

// downloadWorker is a worker goroutine that downloads assets from the jobs channel.
func (e *BackupEngine) downloadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan assetJob,
	results chan<- AssetResult,
	opts BackupOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		results <- e.downloadAsset(ctx, job, opts)
	}
}

// downloadAsset fetches a single asset and writes it under the output directory.
func (e *BackupEngine) downloadAsset(ctx context.Context, job assetJob, opts BackupOpts) AssetResult {
	result := AssetResult{Kind: job.kind, Name: job.name}

	var (
		data []byte
		err  error
	)
	switch job.kind {
	case KindImage:
		data, err = e.source.FetchImage(ctx, job.name)
	case KindAudio:
		data, err = e.source.FetchAudio(ctx, job.name)
	}
	if err != nil {
		result.Error = fmt.Sprintf("fetch failed: %v", err)
		return result
	}

	path := filepath.Join(opts.OutputDir, string(job.kind)+"s", job.name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		result.Error = fmt.Sprintf("write failed: %v", err)
		return result
	}

	result.Path = path
	result.Size = len(data)
	result.Success = true
	return result
}
