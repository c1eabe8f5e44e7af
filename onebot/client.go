package onebot

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wdjwxh/d2rtz-bot/logging"
	"github.com/wdjwxh/d2rtz-bot/metrics"
)

// Client calls the OneBot HTTP API with bearer-token auth.
type Client struct {
	// BaseURL is the API root, used for get_msg and delete_msg.
	BaseURL string
	// SendMessageURL overrides the send endpoint when the operator routes
	// outbound messages through a separate relay. Empty means BaseURL.
	SendMessageURL string
	AuthToken      string
	HTTPClient     *http.Client
	logger         *logging.Logger
}

// NewClient builds an API client. sendMessageURL may be empty.
func NewClient(baseURL, sendMessageURL, authToken string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		SendMessageURL: sendMessageURL,
		AuthToken:      authToken,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

type apiResponse struct {
	Status  string          `json:"status"`
	Retcode int             `json:"retcode"`
	Data    json.RawMessage `json:"data"`
}

type sendGroupMessageRequest struct {
	GroupID int64     `json:"group_id"`
	Message []Segment `json:"message"`
}

type sendGroupMessageData struct {
	MessageID int64 `json:"message_id"`
}

type messageIDRequest struct {
	MessageID int64 `json:"message_id"`
}

type getMessageData struct {
	Message []Segment `json:"message"`
}

// SendGroupMessage posts a text message to the group and returns the id of
// the created message.
func (c *Client) SendGroupMessage(ctx context.Context, groupID int64, text string) (int64, error) {
	reqBody := sendGroupMessageRequest{
		GroupID: groupID,
		Message: []Segment{TextSegment(text)},
	}

	var data sendGroupMessageData
	if err := c.post(ctx, c.sendURL(), reqBody, &data); err != nil {
		metrics.GroupMessageFailCount.Add(1)
		return 0, err
	}

	metrics.GroupMessageSentCount.Add(1)
	return data.MessageID, nil
}

// GetMessage fetches a message by id, used to inspect quoted messages.
func (c *Client) GetMessage(ctx context.Context, messageID int64) ([]Segment, error) {
	var data getMessageData
	if err := c.post(ctx, c.BaseURL+"/get_msg", messageIDRequest{MessageID: messageID}, &data); err != nil {
		return nil, err
	}
	return data.Message, nil
}

// DeleteMessage recalls a previously sent message.
func (c *Client) DeleteMessage(ctx context.Context, messageID int64) error {
	return c.post(ctx, c.BaseURL+"/delete_msg", messageIDRequest{MessageID: messageID}, nil)
}

func (c *Client) sendURL() string {
	if c.SendMessageURL != "" {
		return c.SendMessageURL
	}
	return c.BaseURL + "/send_group_msg"
}

func (c *Client) post(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to reach messaging API")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("messaging API returned status %d", resp.StatusCode)
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.Wrap(err, "failed to decode API response")
	}
	if envelope.Status == "failed" || envelope.Retcode != 0 {
		return errors.Errorf("messaging API returned retcode %d", envelope.Retcode)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return errors.Wrap(err, "failed to decode API response data")
		}
	}
	return nil
}
