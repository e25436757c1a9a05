package robot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/copilette/misty/internal/events"
	"github.com/copilette/misty/internal/models"
)

// silenceClip is the trick for stopping playback: the firmware has no stop
// endpoint, so playing a short silent clip interrupts the current one.
const silenceClip = "silence_stop.mp3"

// AudioAPI records, plays, and manages audio clips.
type AudioAPI struct {
	c      *Client
	events *events.Manager
}

// List returns the audio clips stored on the robot.
func (a *AudioAPI) List(ctx context.Context) ([]models.AudioAsset, error) {
	var audio []models.AudioAsset
	if err := a.c.GetResult(ctx, "audio/list", nil, &audio); err != nil {
		return nil, err
	}
	return audio, nil
}

// Get downloads a clip's raw bytes from the robot.
func (a *AudioAPI) Get(ctx context.Context, fileName string) ([]byte, error) {
	params := url.Values{"FileName": {fileName}, "Base64": {"false"}}
	resp, err := a.c.Get(ctx, "audio", params)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Upload sends a local clip (mp3, wav) to the robot. The firmware caps clips
// at 3 MB. Uploading and then playing separately is faster than asking the
// firmware to apply immediately, so that is what applyImmediately does here.
func (a *AudioAPI) Upload(ctx context.Context, path string, applyImmediately, overwrite bool) error {
	payload, err := newUploadPayload(path, false, overwrite, audioSizeLimit)
	if err != nil {
		return err
	}

	if _, err := a.c.Post(ctx, "audio", payload); err != nil {
		return err
	}
	if applyImmediately {
		return a.Play(ctx, payload.FileName, 100)
	}
	return nil
}

// Play starts a stored clip. Volume is clamped to [1, 100].
func (a *AudioAPI) Play(ctx context.Context, name string, volume int) error {
	payload := map[string]any{
		"FileName": name,
		"Volume":   clamp(volume, 1, 100),
	}
	_, err := a.c.Post(ctx, "audio/play", payload)
	return err
}

// PlayAndWait starts a clip and blocks until the firmware reports the clip
// finished (or ctx ends).
func (a *AudioAPI) PlayAndWait(ctx context.Context, name string, volume int) error {
	if err := a.Play(ctx, name, volume); err != nil {
		return err
	}

	_, err := a.events.WaitFor(ctx, events.NewSubscription(events.AudioPlayComplete), 0, func(e events.Event) bool {
		var msg struct {
			MetaData struct {
				Name string `json:"name"`
			} `json:"metaData"`
		}
		if err := json.Unmarshal(e.Message, &msg); err != nil {
			return false
		}
		return msg.MetaData.Name == name
	})
	return err
}

// StopPlaying interrupts the current clip via the silence-clip trick.
func (a *AudioAPI) StopPlaying(ctx context.Context) error {
	return a.Play(ctx, silenceClip, 1)
}

// Delete removes a stored clip.
func (a *AudioAPI) Delete(ctx context.Context, fileName string) error {
	_, err := a.c.Delete(ctx, "audio", map[string]string{"FileName": fileName})
	return err
}

// SetDefaultVolume sets the robot-wide volume, clamped to [0, 100].
func (a *AudioAPI) SetDefaultVolume(ctx context.Context, volume int) error {
	_, err := a.c.Post(ctx, "audio/volume", map[string]int{"Volume": clamp(volume, 0, 100)})
	return err
}

// Record starts capturing from the microphones into fileName (".wav" is
// appended when missing).
func (a *AudioAPI) Record(ctx context.Context, fileName string) error {
	if !strings.HasSuffix(fileName, ".wav") {
		fileName += ".wav"
	}
	_, err := a.c.Post(ctx, "audio/record/start", map[string]string{"FileName": fileName})
	return err
}

// StopRecording ends the microphone capture.
func (a *AudioAPI) StopRecording(ctx context.Context) error {
	_, err := a.c.Post(ctx, "audio/record/stop", nil)
	return err
}

// StartKeyPhraseRecognition subscribes to key-phrase events and turns the
// recognizer on. The returned token must be passed to
// StopKeyPhraseRecognition.
func (a *AudioAPI) StartKeyPhraseRecognition(ctx context.Context, handler events.Handler) (*events.Token, error) {
	token, err := a.events.Subscribe(ctx, events.NewSubscription(events.KeyPhraseRecognized), handler, 0)
	if err != nil {
		return nil, err
	}

	if _, err := a.c.Post(ctx, "audio/keyphrase/start", nil); err != nil {
		if uerr := a.events.Unsubscribe(ctx, token); uerr != nil {
			a.c.logger.Debug("keyphrase cleanup failed", "err", uerr)
		}
		return nil, err
	}
	return token, nil
}

// StopKeyPhraseRecognition turns the recognizer off and drops the
// subscription.
func (a *AudioAPI) StopKeyPhraseRecognition(ctx context.Context, token *events.Token) error {
	if _, err := a.c.Post(ctx, "audio/keyphrase/stop", nil); err != nil {
		return err
	}
	if token != nil {
		return a.events.Unsubscribe(ctx, token)
	}
	return nil
}

// WaitForKeyPhrase turns the recognizer on and blocks until the robot hears
// the key phrase (or ctx ends), then turns it back off.
func (a *AudioAPI) WaitForKeyPhrase(ctx context.Context) error {
	if _, err := a.c.Post(ctx, "audio/keyphrase/start", nil); err != nil {
		return err
	}
	defer func() {
		if _, err := a.c.Post(context.WithoutCancel(ctx), "audio/keyphrase/stop", nil); err != nil {
			a.c.logger.Debug("keyphrase stop failed", "err", err)
		}
	}()

	_, err := a.events.WaitFor(ctx, events.NewSubscription(events.KeyPhraseRecognized), 0,
		func(events.Event) bool { return true })
	if err != nil {
		return fmt.Errorf("waiting for key phrase: %w", err)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
