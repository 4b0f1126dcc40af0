// Package gamesense talks to the local SteelSeries GameSense server: it
// registers a two-line OLED screen handler and pushes one frame per poll
// cycle. The server is discovered from coreProps.json or probed on the
// usual localhost ports.
package gamesense

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/avelansh/oledtop/model"
)

// GameName identifies this tool to the GameSense server.
const GameName = "OLEDTOP-SYSTEM-MONITOR"

// Client is the display transport. Send failures are returned, never fatal;
// the poll loop decides when to re-register or fall back to console-only.
type Client struct {
	http *resty.Client
	game string
}

// NewClient creates a client for the GameSense server at baseURL.
func NewClient(baseURL string) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(2 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Client{http: r, game: GameName}
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string { return c.http.BaseURL }

type bindPayload struct {
	Game          string        `json:"game"`
	Event         string        `json:"event"`
	MinValue      int           `json:"min_value"`
	MaxValue      int           `json:"max_value"`
	IconID        int           `json:"icon_id"`
	ValueOptional bool          `json:"value_optional"`
	Handlers      []bindHandler `json:"handlers"`
}

type bindHandler struct {
	DeviceType string     `json:"device-type"`
	Zone       string     `json:"zone"`
	Mode       string     `json:"mode"`
	Datas      []bindData `json:"datas"`
}

type bindData struct {
	Lines []bindLine `json:"lines"`
}

type bindLine struct {
	HasText         bool   `json:"has-text"`
	ContextFrameKey string `json:"context-frame-key"`
}

// BindScreen registers the game and its two-line screen handler.
func (c *Client) BindScreen() error {
	payload := bindPayload{
		Game:          c.game,
		Event:         "SYSTEM_STATS",
		MinValue:      0,
		MaxValue:      100,
		IconID:        15,
		ValueOptional: true,
		Handlers: []bindHandler{{
			DeviceType: "screened",
			Zone:       "one",
			Mode:       "screen",
			Datas: []bindData{{
				Lines: []bindLine{
					{HasText: true, ContextFrameKey: "line1"},
					{HasText: true, ContextFrameKey: "line2"},
				},
			}},
		}},
	}
	return c.post("/bind_game_event", payload)
}

type eventPayload struct {
	Game  string    `json:"game"`
	Event string    `json:"event"`
	Data  eventData `json:"data"`
}

type eventData struct {
	Value int        `json:"value"`
	Frame frameLines `json:"frame"`
}

type frameLines struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// SendFrame pushes one display frame. count must increase monotonically per
// cycle or the server may coalesce identical events.
func (c *Client) SendFrame(f model.Frame, count int) error {
	payload := eventPayload{
		Game:  c.game,
		Event: "SYSTEM_STATS",
		Data: eventData{
			Value: count,
			Frame: frameLines{Line1: f.Line1, Line2: f.Line2},
		},
	}
	return c.post("/game_event", payload)
}

type gameOnly struct {
	Game string `json:"game"`
}

// Heartbeat keeps the registration alive between display updates.
func (c *Client) Heartbeat() error {
	return c.post("/game_heartbeat", gameOnly{Game: c.game})
}

// Remove deregisters the game, clearing the OLED on shutdown.
func (c *Client) Remove() error {
	return c.post("/remove_game", gameOnly{Game: c.game})
}

func (c *Client) post(path string, body any) error {
	resp, err := c.http.R().SetBody(body).Post(path)
	if err != nil {
		return fmt.Errorf("gamesense %s: %w", path, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("gamesense %s: status %d", path, resp.StatusCode())
	}
	return nil
}
