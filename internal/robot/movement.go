package robot

import (
	"context"
	"fmt"

	"github.com/copilette/misty/internal/models"
	"github.com/copilette/misty/internal/shared"
)

// MovementAPI drives the base and positions the head and arms.
type MovementAPI struct {
	c *Client
}

// validateVelPct rejects velocity percentages outside [-100, 100] before any
// HTTP call is made.
func validateVelPct(vals map[string]float64) error {
	var fails []string
	for name, v := range vals {
		if v < -100 || v > 100 {
			fails = append(fails, fmt.Sprintf("%s=%v", name, v))
		}
	}
	if fails != nil {
		return fmt.Errorf("%w: velocity pct must be in [-100, 100]: %v", shared.ErrInvalidArgument, fails)
	}
	return nil
}

// Drive moves the base. Both velocities are percentages in [-100, 100];
// positive angular velocity turns clockwise. A timeMS greater than zero uses
// the timed-drive endpoint so the firmware stops on its own.
func (a *MovementAPI) Drive(ctx context.Context, linearVelPct, angularVelPct float64, timeMS int) error {
	// the firmware treats positive angular velocity as counter-clockwise;
	// flip it so callers get the intuitive direction
	angularVelPct *= -1

	if err := validateVelPct(map[string]float64{
		"linear": linearVelPct, "angular": angularVelPct,
	}); err != nil {
		return err
	}

	payload := map[string]any{
		"LinearVelocity":  linearVelPct,
		"AngularVelocity": angularVelPct,
	}
	endpoint := "drive"
	if timeMS > 0 {
		payload["TimeMS"] = timeMS
		endpoint += "/time"
	}

	_, err := a.c.Post(ctx, endpoint, payload)
	return err
}

// DriveTrack controls the two tracks individually.
func (a *MovementAPI) DriveTrack(ctx context.Context, leftVelPct, rightVelPct float64) error {
	if err := validateVelPct(map[string]float64{
		"left": leftVelPct, "right": rightVelPct,
	}); err != nil {
		return err
	}

	payload := map[string]float64{
		"LeftTrackSpeed":  leftVelPct,
		"RightTrackSpeed": rightVelPct,
	}
	_, err := a.c.Post(ctx, "drive/track", payload)
	return err
}

// DriveArc turns along an arc to an absolute heading. Positive headings are
// clockwise here; the firmware's convention is flipped on the way out.
func (a *MovementAPI) DriveArc(ctx context.Context, headingDegrees, radiusM float64, timeMS int, reverse bool) error {
	payload := map[string]any{
		"Heading": headingDegrees * -1,
		"Radius":  radiusM,
		"TimeMs":  timeMS,
		"Reverse": reverse,
	}
	_, err := a.c.Post(ctx, "drive/arc", payload)
	return err
}

// MoveArms positions one or both arms. Passing no settings is a no-op.
func (a *MovementAPI) MoveArms(ctx context.Context, arms ...models.ArmSettings) error {
	payload := map[string]float64{}
	for _, arm := range arms {
		if err := arm.Validate(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		for k, v := range arm.Payload() {
			payload[k] = v
		}
	}
	if len(payload) == 0 {
		return nil
	}

	_, err := a.c.Post(ctx, "arms/set", payload)
	return err
}

// MoveHead moves the head. Nil fields on settings are left where they are.
func (a *MovementAPI) MoveHead(ctx context.Context, settings models.HeadSettings) error {
	_, err := a.c.Post(ctx, "head", settings.Payload())
	return err
}

// Stop halts driving. Head, arms, and anything already queued keep going;
// use Halt for a full stop.
func (a *MovementAPI) Stop(ctx context.Context) error {
	_, err := a.c.Post(ctx, "drive/stop", nil)
	return err
}

// Halt stops every motor immediately.
func (a *MovementAPI) Halt(ctx context.Context) error {
	_, err := a.c.Post(ctx, "halt", nil)
	return err
}
