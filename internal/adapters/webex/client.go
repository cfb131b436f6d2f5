// Package webex implements the chat transport against the Webex REST API:
// outbound messages and cards, message/action detail lookups, and file download.
package webex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/frn-eng/intake-agent/internal/domain"
)

const DefaultAPIBase = "https://webexapis.com"

type Client struct {
	baseURL  string
	token    string
	botEmail string
	http     *http.Client
}

// NewClient builds a transport client. baseURL is injectable for tests;
// empty means the public API.
func NewClient(baseURL, token, botEmail string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBase
	}
	return &Client{
		baseURL:  baseURL,
		token:    token,
		botEmail: botEmail,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// BotEmail is the identity used to filter out the bot's own messages.
func (c *Client) BotEmail() string {
	return c.botEmail
}

// ─────────────────────────────────────────────
// Outbound messages
// ─────────────────────────────────────────────

func (c *Client) SendText(ctx context.Context, roomID domain.RoomID, markdown string) error {
	payload := map[string]any{
		"roomId":   string(roomID),
		"markdown": markdown,
	}
	return c.post(ctx, "/v1/messages", payload, nil)
}

// SendCard shows an adaptive card with an expanded choice list and a submit
// action.
func (c *Client) SendCard(ctx context.Context, roomID domain.RoomID, prompt string, choices []string) error {
	cardChoices := make([]map[string]any, 0, len(choices))
	for _, name := range choices {
		cardChoices = append(cardChoices, map[string]any{"title": name, "value": name})
	}

	payload := map[string]any{
		"roomId":   string(roomID),
		"markdown": prompt,
		"attachments": []map[string]any{{
			"contentType": "application/vnd.microsoft.card.adaptive",
			"content": map[string]any{
				"type":    "AdaptiveCard",
				"version": "1.0",
				"body": []map[string]any{
					{
						"type":   "TextBlock",
						"text":   prompt,
						"weight": "bolder",
						"size":   "medium",
					},
					{
						"type":    "Input.ChoiceSet",
						"id":      "investigator",
						"style":   "expanded",
						"choices": cardChoices,
					},
				},
				"actions": []map[string]any{
					{"type": "Action.Submit", "title": "إرسال"},
				},
			},
		}},
	}
	return c.post(ctx, "/v1/messages", payload, nil)
}

// ─────────────────────────────────────────────
// Inbound detail lookups
// ─────────────────────────────────────────────

// Message is the detail of an inbound message as returned by GET /v1/messages/{id}.
type Message struct {
	ID          string   `json:"id"`
	RoomID      string   `json:"roomId"`
	PersonID    string   `json:"personId"`
	PersonEmail string   `json:"personEmail"`
	Text        string   `json:"text"`
	Files       []string `json:"files"`
}

func (c *Client) GetMessage(ctx context.Context, messageID string) (Message, error) {
	var msg Message
	if err := c.get(ctx, "/v1/messages/"+messageID, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// AttachmentAction is the detail of a card submit as returned by
// GET /v1/attachment/actions/{id}.
type AttachmentAction struct {
	ID       string            `json:"id"`
	RoomID   string            `json:"roomId"`
	PersonID string            `json:"personId"`
	Inputs   map[string]string `json:"inputs"`
}

func (c *Client) GetAttachmentAction(ctx context.Context, actionID string) (AttachmentAction, error) {
	var action AttachmentAction
	if err := c.get(ctx, "/v1/attachment/actions/"+actionID, &action); err != nil {
		return AttachmentAction{}, err
	}
	return action, nil
}

// FetchFile downloads a message attachment with the bot token. The second
// return value is a filename hint derived from the response headers.
func (c *Client) FetchFile(ctx context.Context, fileURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("webex file download: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, "", fmt.Errorf("webex file download: status %d", res.StatusCode)
	}

	filename := "voice.mp4"
	if cd := res.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}

	return res.Body, filename, nil
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("webex %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("webex %s %s: status %d: %s", req.Method, req.URL.Path, res.StatusCode, b)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
