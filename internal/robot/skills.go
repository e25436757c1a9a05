package robot

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/copilette/misty/internal/models"
	"github.com/copilette/misty/internal/shared"
)

// SkillAPI manages on-robot skills.
type SkillAPI struct {
	c *Client
}

// List returns every skill installed on the robot.
func (a *SkillAPI) List(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := a.c.GetResult(ctx, "skills", nil, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// Running returns the skills currently executing.
func (a *SkillAPI) Running(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := a.c.GetResult(ctx, "skills/running", nil, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// Run starts a skill by name or unique id. Method optionally names the
// entry point to invoke; the firmware returns the running skill's id.
func (a *SkillAPI) Run(ctx context.Context, nameOrID, method string) (string, error) {
	if nameOrID == "" {
		return "", fmt.Errorf("%w: skill name or id", shared.ErrMissingArgument)
	}
	payload := map[string]string{"Skill": nameOrID}
	if method != "" {
		payload["Method"] = method
	}
	var id string
	if err := a.c.PostResult(ctx, "skills/start", payload, &id); err != nil {
		return "", err
	}
	return id, nil
}

// Stop cancels a running skill. An empty name cancels all running skills.
func (a *SkillAPI) Stop(ctx context.Context, name string) error {
	payload := map[string]string{}
	if name != "" {
		payload["Skill"] = name
	}
	_, err := a.c.Post(ctx, "skills/cancel", payload)
	return err
}

// Delete removes an installed skill by unique id.
func (a *SkillAPI) Delete(ctx context.Context, skillID string) error {
	if skillID == "" {
		return fmt.Errorf("%w: skill id", shared.ErrMissingArgument)
	}
	_, err := a.c.Delete(ctx, "skills", map[string]string{"Skill": skillID})
	return err
}

// Save uploads a packaged skill (a zip of its meta and code files).
func (a *SkillAPI) Save(ctx context.Context, zipPath string, applyImmediately, overwrite bool) error {
	data, err := os.ReadFile(zipPath)
	if err != nil {
		return fmt.Errorf("read skill archive: %w", err)
	}
	payload := map[string]any{
		"File":              filepath.Base(zipPath),
		"Data":              base64.StdEncoding.EncodeToString(data),
		"ImmediatelyApply":  applyImmediately,
		"OverwriteExisting": overwrite,
	}
	_, err = a.c.Post(ctx, "skills", payload)
	return err
}

// TriggerEvent sends a named event, with an optional JSON payload, to a
// running skill.
func (a *SkillAPI) TriggerEvent(ctx context.Context, skillID, eventName string, payload any) error {
	if skillID == "" {
		return fmt.Errorf("%w: skill id", shared.ErrMissingArgument)
	}
	if eventName == "" {
		return fmt.Errorf("%w: event name", shared.ErrMissingArgument)
	}
	body := map[string]any{"UniqueId": skillID, "EventName": eventName}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode event payload: %w", err)
		}
		body["Payload"] = json.RawMessage(raw)
	}
	_, err := a.c.Post(ctx, "skills/event", body)
	return err
}
