// Package client provides a NATS-based client for the AtFood gateway.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
)

// AtfoodClient sends gateway requests over NATS and waits for the reply on
// a per-request subject.
type AtfoodClient struct {
	conn     *nats.Conn
	clientID string
	subject  string
	timeout  time.Duration
}

func New(natsURL, clientID string) (*AtfoodClient, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	if clientID == "" {
		clientID = "atfood-client"
	}

	return &AtfoodClient{
		conn:     conn,
		clientID: clientID,
		subject:  "atfood.request",
		timeout:  90 * time.Second,
	}, nil
}

// Ask sends one request and blocks for its reply.
func (c *AtfoodClient) Ask(ctx context.Context, req Request) (*Response, error) {
	if req.ReqID == "" {
		req.ReqID = ulid.Make().String()
	}
	replySubject := fmt.Sprintf("atfood.response.%s.%s", c.clientID, req.ReqID)
	req.ReplyTo = replySubject

	slog.Debug("Sending atfood request",
		"subject", c.subject,
		"req_id", req.ReqID,
		"action", req.Action,
		"reply_subject", replySubject)

	requestBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Subscribe to the reply subject before publishing so the reply cannot
	// race the subscription.
	replyChan := make(chan *nats.Msg, 1)
	sub, err := c.conn.Subscribe(replySubject, func(msg *nats.Msg) {
		replyChan <- msg
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to reply: %w", err)
	}
	defer sub.Unsubscribe()

	if err := c.conn.Publish(c.subject, requestBytes); err != nil {
		return nil, fmt.Errorf("failed to publish request: %w", err)
	}

	select {
	case msg := <-replyChan:
		var response Response
		if err := json.Unmarshal(msg.Data, &response); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		return &response, nil

	case <-time.After(c.timeout):
		return nil, fmt.Errorf("request timeout after %v", c.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetTimeout configures request timeout
func (c *AtfoodClient) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// Close closes the NATS connection
func (c *AtfoodClient) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
