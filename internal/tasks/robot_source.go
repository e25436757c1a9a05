package tasks

import (
	"context"

	"github.com/copilette/misty/internal/models"
	"github.com/copilette/misty/internal/robot"
)

// RobotAssets adapts a robot client into an AssetSource.
type RobotAssets struct {
	r *robot.Robot
}

// NewRobotAssets wraps the given robot client.
func NewRobotAssets(r *robot.Robot) RobotAssets {
	return RobotAssets{r: r}
}

func (s RobotAssets) ListImages(ctx context.Context) ([]models.ImageAsset, error) {
	return s.r.Images.List(ctx)
}

func (s RobotAssets) ListAudio(ctx context.Context) ([]models.AudioAsset, error) {
	return s.r.Audio.List(ctx)
}

func (s RobotAssets) FetchImage(ctx context.Context, name string) ([]byte, error) {
	return s.r.Images.Get(ctx, name)
}

func (s RobotAssets) FetchAudio(ctx context.Context, name string) ([]byte, error) {
	return s.r.Audio.Get(ctx, name)
}
