package webex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frn-eng/intake-agent/internal/domain"
)

// Webhook resource names used by the intake flow.
const (
	ResourceMessages          = "messages"
	ResourceAttachmentActions = "attachmentActions"
)

// WebhookPayload is the envelope Webex POSTs to the registered webhook URL.
// It only carries identifiers; the interesting detail (text, files, card
// inputs) must be fetched back from the API.
type WebhookPayload struct {
	Resource string `json:"resource"`
	Data     struct {
		ID          string `json:"id"`
		RoomID      string `json:"roomId"`
		PersonID    string `json:"personId"`
		PersonEmail string `json:"personEmail"`
	} `json:"data"`
}

func ParseWebhookPayload(body []byte) (WebhookPayload, error) {
	var p WebhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return WebhookPayload{}, fmt.Errorf("decoding webhook payload: %w", err)
	}
	if p.Data.ID == "" || p.Data.PersonID == "" {
		return WebhookPayload{}, fmt.Errorf("webhook payload missing data ids")
	}
	return p, nil
}

// Resolve turns a webhook envelope into a normalized inbound event, fetching
// the message or attachment-action detail from the API.
func (c *Client) Resolve(ctx context.Context, p WebhookPayload) (domain.InboundEvent, error) {
	switch p.Resource {
	case ResourceAttachmentActions:
		action, err := c.GetAttachmentAction(ctx, p.Data.ID)
		if err != nil {
			return domain.InboundEvent{}, domain.Collaborator("webex attachment action lookup", err)
		}
		return domain.InboundEvent{
			ID:        domain.EventID(action.ID),
			Kind:      domain.EventAttachmentAction,
			UserID:    domain.UserID(action.PersonID),
			RoomID:    domain.RoomID(action.RoomID),
			Selection: action.Inputs["investigator"],
		}, nil

	case ResourceMessages:
		msg, err := c.GetMessage(ctx, p.Data.ID)
		if err != nil {
			return domain.InboundEvent{}, domain.Collaborator("webex message lookup", err)
		}
		return domain.InboundEvent{
			ID:          domain.EventID(msg.ID),
			Kind:        domain.EventMessage,
			UserID:      domain.UserID(msg.PersonID),
			RoomID:      domain.RoomID(msg.RoomID),
			AuthorEmail: msg.PersonEmail,
			Text:        msg.Text,
			FileURLs:    msg.Files,
		}, nil

	default:
		return domain.InboundEvent{}, fmt.Errorf("unsupported webhook resource %q", p.Resource)
	}
}
