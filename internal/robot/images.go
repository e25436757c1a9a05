package robot

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"

	"github.com/copilette/misty/internal/models"
	"github.com/copilette/misty/internal/shared"
)

// ImageAPI handles pictures, video, stored images, the LED, and blinking.
type ImageAPI struct {
	c *Client
}

// List returns the images stored on the robot.
func (a *ImageAPI) List(ctx context.Context) ([]models.ImageAsset, error) {
	var images []models.ImageAsset
	if err := a.c.GetResult(ctx, "images/list", nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// Get downloads an image's raw bytes from the robot.
func (a *ImageAPI) Get(ctx context.Context, fileName string) ([]byte, error) {
	params := url.Values{"FileName": {fileName}, "Base64": {"false"}}
	resp, err := a.c.Get(ctx, "images", params)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ImageUploadOpts configures an image upload. Width and Height of zero keep
// the image's own dimensions.
type ImageUploadOpts struct {
	Width            int
	Height           int
	ApplyImmediately bool
	Overwrite        bool
}

// Upload sends a local image file to the robot.
func (a *ImageAPI) Upload(ctx context.Context, path string, opts ImageUploadOpts) error {
	base, err := newUploadPayload(path, opts.ApplyImmediately, opts.Overwrite, 0)
	if err != nil {
		return err
	}

	payload := struct {
		*uploadPayload
		Width  int `json:"Width,omitempty"`
		Height int `json:"Height,omitempty"`
	}{base, opts.Width, opts.Height}

	_, err = a.c.Post(ctx, "images", payload)
	return err
}

// Display shows a stored image on the screen. Alpha runs from 0 (transparent)
// to 1 (opaque).
func (a *ImageAPI) Display(ctx context.Context, fileName string, timeoutSecs, alpha float64) error {
	payload := map[string]any{
		"FileName":       fileName,
		"TimeOutSeconds": timeoutSecs,
		"Alpha":          alpha,
	}
	_, err := a.c.Post(ctx, "images/display", payload)
	return err
}

// SetLED changes the chest LED color. All-zero turns it off.
func (a *ImageAPI) SetLED(ctx context.Context, color models.RGB) error {
	if err := color.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	_, err := a.c.Post(ctx, "led", color)
	return err
}

// Delete removes a stored image.
func (a *ImageAPI) Delete(ctx context.Context, fileName string) error {
	_, err := a.c.Delete(ctx, "images", map[string]string{"FileName": fileName})
	return err
}

// Picture is a camera capture, decoded from the firmware's base64 payload.
type Picture struct {
	Name        string
	ContentType string
	Width       int
	Height      int
	Data        []byte
}

// TakePictureOpts configures a camera capture. Width and Height must be
// supplied together or not at all; ShowOnScreen requires a FileName to save
// under.
type TakePictureOpts struct {
	FileName     string
	Width        int
	Height       int
	ShowOnScreen bool
	Overwrite    bool
}

func (o TakePictureOpts) validate() error {
	if (o.Width == 0) != (o.Height == 0) {
		return fmt.Errorf("%w: must supply both width and height, or neither", shared.ErrInvalidArgument)
	}
	if o.ShowOnScreen && o.FileName == "" {
		return fmt.Errorf("%w: show-on-screen requires a file name", shared.ErrInvalidArgument)
	}
	return nil
}

// TakePicture captures a photo with the RGB camera.
func (a *ImageAPI) TakePicture(ctx context.Context, opts TakePictureOpts) (*Picture, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	params := url.Values{"Base64": {"true"}}
	if opts.FileName != "" {
		params.Set("FileName", opts.FileName)
		params.Set("DisplayOnScreen", boolStr(opts.ShowOnScreen))
		params.Set("OverwriteExisting", boolStr(opts.Overwrite))
	}
	if opts.Width != 0 {
		params.Set("Width", strconv.Itoa(opts.Width))
		params.Set("Height", strconv.Itoa(opts.Height))
	}

	var result struct {
		Base64      string `json:"base64"`
		ContentType string `json:"contentType"`
		Name        string `json:"name"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
	}
	if err := a.c.GetResult(ctx, "cameras/rgb", params, &result); err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(result.Base64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode picture data: %w", err)
	}

	return &Picture{
		Name:        result.Name,
		ContentType: result.ContentType,
		Width:       result.Width,
		Height:      result.Height,
		Data:        data,
	}, nil
}

// StartRecordingVideo begins a capture. The firmware records at most ten
// seconds and stores a single recording at a time.
func (a *ImageAPI) StartRecordingVideo(ctx context.Context) error {
	_, err := a.c.Post(ctx, "video/record/start", nil)
	return err
}

// StopRecordingVideo ends the current capture.
func (a *ImageAPI) StopRecordingVideo(ctx context.Context) error {
	_, err := a.c.Post(ctx, "video/record/stop", nil)
	return err
}

// RecordedVideo downloads the stored recording.
func (a *ImageAPI) RecordedVideo(ctx context.Context) ([]byte, error) {
	resp, err := a.c.Get(ctx, "video", nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// BlinkSettings fetches the current eye-blink configuration.
func (a *ImageAPI) BlinkSettings(ctx context.Context) (*models.BlinkSettings, error) {
	var settings models.BlinkSettings
	if err := a.c.GetResult(ctx, "blink/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SetBlinking turns autonomous blinking on or off.
func (a *ImageAPI) SetBlinking(ctx context.Context, on bool) error {
	_, err := a.c.Post(ctx, "blink", map[string]bool{"Blink": on})
	return err
}

// SetBlinkSettings updates the eye-blink configuration. Nil fields are left
// unchanged on the device.
func (a *ImageAPI) SetBlinkSettings(ctx context.Context, settings models.BlinkSettings) error {
	_, err := a.c.Post(ctx, "blink/settings", settings)
	return err
}

// RemoveBlinkMappings deletes image-to-blink mappings.
func (a *ImageAPI) RemoveBlinkMappings(ctx context.Context, images ...string) error {
	if len(images) == 0 {
		return fmt.Errorf("%w: no images given", shared.ErrMissingArgument)
	}
	_, err := a.c.Delete(ctx, "blink/images", map[string][]string{"BlinkImages": images})
	return err
}
