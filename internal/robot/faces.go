package robot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/copilette/misty/internal/events"
	"github.com/copilette/misty/internal/shared"
)

// FaceAPI performs face detection, training, and recognition.
type FaceAPI struct {
	c      *Client
	events *events.Manager
}

// List returns the names the robot has been trained on.
func (a *FaceAPI) List(ctx context.Context) ([]string, error) {
	var faces []string
	if err := a.c.GetResult(ctx, "faces", nil, &faces); err != nil {
		return nil, err
	}
	return faces, nil
}

// Delete removes one trained face.
func (a *FaceAPI) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: face name", shared.ErrMissingArgument)
	}
	_, err := a.c.Delete(ctx, "faces", map[string]string{"FaceId": name})
	return err
}

// DeleteAll removes every trained face.
func (a *FaceAPI) DeleteAll(ctx context.Context) error {
	_, err := a.c.Delete(ctx, "faces", nil)
	return err
}

// StartDetection starts finding faces in the robot's line of vision.
func (a *FaceAPI) StartDetection(ctx context.Context) error {
	_, err := a.c.Post(ctx, "faces/detection/start", nil)
	return err
}

// StopDetection stops finding faces.
func (a *FaceAPI) StopDetection(ctx context.Context) error {
	_, err := a.c.Post(ctx, "faces/detection/stop", nil)
	return err
}

// StartTraining begins training the face in view under faceID.
func (a *FaceAPI) StartTraining(ctx context.Context, faceID string) error {
	if faceID == "" {
		return fmt.Errorf("%w: face id", shared.ErrMissingArgument)
	}
	_, err := a.c.Post(ctx, "faces/training/start", map[string]string{"FaceId": faceID})
	return err
}

// StopTraining ends the current training session.
func (a *FaceAPI) StopTraining(ctx context.Context) error {
	_, err := a.c.Post(ctx, "faces/training/stop", nil)
	return err
}

// CancelTraining aborts an in-progress training session. Only needed to
// manually stop something already running.
func (a *FaceAPI) CancelTraining(ctx context.Context) error {
	_, err := a.c.Post(ctx, "faces/training/cancel", nil)
	return err
}

// Train starts training faceID and blocks until the firmware reports the
// session complete (or ctx ends). The FaceTraining subscription is registered
// before training starts so the first status frames cannot be missed.
func (a *FaceAPI) Train(ctx context.Context, faceID string) error {
	if faceID == "" {
		return fmt.Errorf("%w: face id", shared.ErrMissingArgument)
	}

	complete := make(chan struct{}, 1)
	token, err := a.events.Subscribe(ctx, events.NewSubscription(events.FaceTraining), func(e events.Event) {
		if trainingComplete(e) {
			select {
			case complete <- struct{}{}:
			default:
			}
		}
	}, 0)
	if err != nil {
		return err
	}
	defer func() {
		cleanup, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if uerr := a.events.Unsubscribe(cleanup, token); uerr != nil {
			a.c.logger.Debug("training cleanup failed", "err", uerr)
		}
	}()

	if err := a.StartTraining(ctx, faceID); err != nil {
		return err
	}

	select {
	case <-complete:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for training: %w", ctx.Err())
	}
}

// trainingComplete reports whether a FaceTraining frame announces the end of
// the session.
func trainingComplete(e events.Event) bool {
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Message, &msg); err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(msg.Message), "complete")
}

// StartRecognition starts attempting to recognize trained faces.
func (a *FaceAPI) StartRecognition(ctx context.Context) error {
	_, err := a.c.Post(ctx, "faces/recognition/start", nil)
	return err
}

// StopRecognition stops attempting to recognize faces.
func (a *FaceAPI) StopRecognition(ctx context.Context) error {
	_, err := a.c.Post(ctx, "faces/recognition/stop", nil)
	return err
}

// StopAll halts training, cancels any pending session, and stops
// recognition.
func (a *FaceAPI) StopAll(ctx context.Context) error {
	return errors.Join(
		a.StopTraining(ctx),
		a.CancelTraining(ctx),
		a.StopRecognition(ctx),
	)
}
