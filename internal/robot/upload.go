package robot

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/copilette/misty/internal/shared"
)

// audioSizeLimit is the firmware's cap on uploaded audio clips.
const audioSizeLimit = 3 << 20

// uploadPayload is the shared body shape for image and audio uploads. The
// firmware takes file contents base64-encoded in the Data field.
type uploadPayload struct {
	FileName          string `json:"FileName"`
	Data              string `json:"Data"`
	ImmediatelyApply  bool   `json:"ImmediatelyApply"`
	OverwriteExisting bool   `json:"OverwriteExisting"`
}

// newUploadPayload reads path and builds the upload body. limit of 0 means
// unbounded; oversize files are rejected rather than truncated.
func newUploadPayload(path string, applyImmediately, overwrite bool, limit int64) (*uploadPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes, over the %d byte limit",
			shared.ErrInvalidInput, path, len(data), limit)
	}

	return &uploadPayload{
		FileName:          filepath.Base(path),
		Data:              base64.StdEncoding.EncodeToString(data),
		ImmediatelyApply:  applyImmediately,
		OverwriteExisting: overwrite,
	}, nil
}
