package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// StepsClient manages card checklist steps.
type StepsClient struct {
	httpClient *httpclient.Client
}

// NewStepsClient creates a new steps client.
func NewStepsClient(httpClient *httpclient.Client) *StepsClient {
	return &StepsClient{httpClient: httpClient}
}

// StepRequest is the payload for creating or updating a step.
type StepRequest struct {
	Content string `json:"content"`
}

func stepPath(cardNumber int, stepID int64) string {
	return cardPath(cardNumber) + "/steps/" + strconv.FormatInt(stepID, 10)
}

// List fetches every step on a card. Checklists are small; the endpoint does
// not paginate.
func (c *StepsClient) List(ctx context.Context, cardNumber int) ([]fizzy.Step, error) {
	resp, err := c.httpClient.Get(ctx, cardPath(cardNumber)+"/steps", nil)
	if err != nil {
		return nil, fmt.Errorf("listing steps: %w", err)
	}

	var steps []fizzy.Step

	err = json.Unmarshal(resp.Body, &steps)
	if err != nil {
		return nil, fmt.Errorf("parsing steps response: %w", err)
	}

	return steps, nil
}

// Create adds a step to a card's checklist.
func (c *StepsClient) Create(ctx context.Context, cardNumber int, content string) (*fizzy.Step, error) {
	resp, err := c.httpClient.Post(ctx, cardPath(cardNumber)+"/steps", &StepRequest{Content: content})
	if err != nil {
		return nil, fmt.Errorf("creating step: %w", err)
	}

	return parseStep(resp.Body)
}

// Update rewrites a step's content.
func (c *StepsClient) Update(ctx context.Context, cardNumber int, stepID int64, content string) (*fizzy.Step, error) {
	resp, err := c.httpClient.Put(ctx, stepPath(cardNumber, stepID), &StepRequest{Content: content})
	if err != nil {
		return nil, fmt.Errorf("updating step: %w", err)
	}

	return parseStep(resp.Body)
}

// Toggle flips a step's completion state.
func (c *StepsClient) Toggle(ctx context.Context, cardNumber int, stepID int64) (*fizzy.Step, error) {
	resp, err := c.httpClient.Post(ctx, stepPath(cardNumber, stepID)+"/toggle", nil)
	if err != nil {
		return nil, fmt.Errorf("toggling step: %w", err)
	}

	return parseStep(resp.Body)
}

// Delete removes a step from a card's checklist.
func (c *StepsClient) Delete(ctx context.Context, cardNumber int, stepID int64) error {
	_, err := c.httpClient.Delete(ctx, stepPath(cardNumber, stepID))
	if err != nil {
		return fmt.Errorf("deleting step: %w", err)
	}

	return nil
}

func parseStep(body []byte) (*fizzy.Step, error) {
	var step fizzy.Step

	err := json.Unmarshal(body, &step)
	if err != nil {
		return nil, fmt.Errorf("parsing step response: %w", err)
	}

	return &step, nil
}
