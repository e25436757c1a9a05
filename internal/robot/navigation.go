package robot

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/copilette/misty/internal/events"
	"github.com/copilette/misty/internal/models"
	"github.com/copilette/misty/internal/shared"
)

// slamReadyTimeout bounds how long we wait for a SLAM sensor to come up.
const slamReadyTimeout = 15 * time.Second

// slamStatus is the slice of a SelfState frame that reports sensor
// readiness.
type slamStatus struct {
	RunMode    string   `json:"runMode"`
	StatusList []string `json:"statusList"`
}

func (s slamStatus) has(vals ...string) bool {
	for _, v := range vals {
		if !slices.Contains(s.StatusList, v) {
			return false
		}
	}
	return true
}

// slamHelper reference-counts one SLAM mode (streaming, mapping, tracking)
// so nested operations never stop a sensor another caller still needs.
type slamHelper struct {
	c        *Client
	events   *events.Manager
	endpoint string
	ready    func(slamStatus) bool

	mu      sync.Mutex
	holders int
}

// acquire starts the sensor on the first holder and waits for the firmware
// to report it ready.
func (s *slamHelper) acquire(ctx context.Context) error {
	s.mu.Lock()
	s.holders++
	first := s.holders == 1
	s.mu.Unlock()

	if !first {
		return nil
	}

	if _, err := s.c.Post(ctx, "slam/"+s.endpoint+"/start", nil); err != nil {
		s.release(ctx)
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, slamReadyTimeout)
	defer cancel()

	_, err := s.events.WaitFor(waitCtx, events.NewSubscription(events.SelfState), 0, func(e events.Event) bool {
		var msg struct {
			SlamStatus slamStatus `json:"slamStatus"`
		}
		if jerr := json.Unmarshal(e.Message, &msg); jerr != nil {
			return false
		}
		return s.ready(msg.SlamStatus)
	})
	if err != nil {
		s.release(ctx)
		return fmt.Errorf("%w: slam %s sensor not ready: %v", shared.ErrTimeout, s.endpoint, err)
	}
	return nil
}

// release stops the sensor once the last holder lets go.
func (s *slamHelper) release(ctx context.Context) {
	s.mu.Lock()
	s.holders--
	last := s.holders == 0
	s.mu.Unlock()

	if last {
		if _, err := s.c.Post(ctx, "slam/"+s.endpoint+"/stop", nil); err != nil {
			s.c.logger.Debug("slam stop failed", "endpoint", s.endpoint, "err", err)
		}
	}
}

// NavigationAPI controls SLAM mapping, tracking, and the depth and fisheye
// cameras.
type NavigationAPI struct {
	c *Client

	streaming *slamHelper
	mapping   *slamHelper
	tracking  *slamHelper
}

func newNavigationAPI(c *Client, ev *events.Manager) *NavigationAPI {
	return &NavigationAPI{
		c: c,
		streaming: &slamHelper{
			c: c, events: ev, endpoint: "streaming",
			ready: func(s slamStatus) bool {
				return s.has("Ready", "Streaming")
			},
		},
		mapping: &slamHelper{
			c: c, events: ev, endpoint: "map",
			ready: func(s slamStatus) bool {
				return s.RunMode == "Exploring" && s.has("Ready", "Exploring", "HasPose", "Streaming")
			},
		},
		tracking: &slamHelper{
			c: c, events: ev, endpoint: "track",
			ready: func(s slamStatus) bool {
				return s.RunMode == "Tracking" && s.has("Ready", "Tracking", "HasPose", "Streaming")
			},
		},
	}
}

// ResetSlam clears the SLAM subsystem's state.
func (a *NavigationAPI) ResetSlam(ctx context.Context) error {
	_, err := a.c.Post(ctx, "slam/reset", nil)
	return err
}

// TakeDepthPicture captures a frame from the depth camera, bringing the
// streaming sensor up (and back down) around the capture.
func (a *NavigationAPI) TakeDepthPicture(ctx context.Context) (json.RawMessage, error) {
	if err := a.streaming.acquire(ctx); err != nil {
		return nil, err
	}
	defer a.streaming.release(ctx)

	var result json.RawMessage
	if err := a.c.GetResult(ctx, "cameras/depth", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// TakeFisheyePicture captures raw bytes from the fisheye camera, bringing
// the streaming sensor up around the capture.
func (a *NavigationAPI) TakeFisheyePicture(ctx context.Context) ([]byte, error) {
	if err := a.streaming.acquire(ctx); err != nil {
		return nil, err
	}
	defer a.streaming.release(ctx)

	resp, err := a.c.Get(ctx, "cameras/fisheye", nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Map fetches the current SLAM map.
func (a *NavigationAPI) Map(ctx context.Context) (json.RawMessage, error) {
	var result json.RawMessage
	if err := a.c.GetResult(ctx, "slam/map", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DriveToCoordinates drives to a point on the current map, holding the
// tracking sensor for the duration of the command.
func (a *NavigationAPI) DriveToCoordinates(ctx context.Context, coords models.Coords) error {
	if err := a.tracking.acquire(ctx); err != nil {
		return err
	}
	defer a.tracking.release(ctx)

	payload := map[string]string{"Destination": models.FormatCoords(coords)}
	_, err := a.c.Post(ctx, "drive/coordinates", payload)
	return err
}

// FollowPath drives along a series of map coordinates.
func (a *NavigationAPI) FollowPath(ctx context.Context, coords ...models.Coords) error {
	if len(coords) == 0 {
		return fmt.Errorf("%w: no coordinates given", shared.ErrMissingArgument)
	}
	if len(coords) == 1 {
		return a.DriveToCoordinates(ctx, coords[0])
	}

	if err := a.tracking.acquire(ctx); err != nil {
		return err
	}
	defer a.tracking.release(ctx)

	payload := map[string]string{"Path": models.FormatCoords(coords...)}
	_, err := a.c.Post(ctx, "drive/path", payload)
	return err
}
