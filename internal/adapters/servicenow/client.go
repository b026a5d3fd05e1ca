package servicenow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"carelink/internal/domain/checkin"
	"carelink/internal/domain/elder"
)

const (
	elderTable   = "x_1855398_elderl_0_elderly_data"
	checkinTable = "x_1855398_elderl_0_elderly_check_in_log"
)

// Client talks to the ServiceNow table API with basic auth.
type Client struct {
	instance    string // e.g. "https://devNNNN.service-now.com"
	username    string
	password    string
	windowNames []string // lower-cased session window names for status parsing
	httpClient  *http.Client
}

// NewClient creates a gateway client for the given instance. windowNames are
// the session window names used to classify "missed" statuses when logs are
// fetched.
func NewClient(instance, username, password string, windowNames []string) *Client {
	return &Client{
		instance:    strings.TrimRight(instance, "/"),
		username:    username,
		password:    password,
		windowNames: windowNames,
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
}

// tableResult is the envelope the table API wraps every response in. Rows
// are decoded as loose maps because field names vary between scoped-app
// deployments (name vs u_name and so on).
type tableResult struct {
	Result []map[string]any `json:"result"`
}

// ListElders returns all elder records.
// POST: Returns the normalized records; an error aborts the caller's pass
func (c *Client) ListElders(ctx context.Context) ([]elder.Elder, error) {
	rows, err := c.getTable(ctx, elderTable, "")
	if err != nil {
		return nil, fmt.Errorf("list elders: %w", err)
	}
	elders := make([]elder.Elder, 0, len(rows))
	for _, row := range rows {
		elders = append(elders, elderFromRow(row))
	}
	return elders, nil
}

// GetElderByUsername looks up a single elder by login username.
// POST: Returns (elder, true) when found, (zero, false) when absent
func (c *Client) GetElderByUsername(ctx context.Context, username string) (elder.Elder, bool, error) {
	query := "u_elderly_username=" + username
	rows, err := c.getTable(ctx, elderTable, query)
	if err != nil {
		return elder.Elder{}, false, fmt.Errorf("elder lookup: %w", err)
	}
	if len(rows) == 0 {
		return elder.Elder{}, false, nil
	}
	return elderFromRow(rows[0]), true, nil
}

// ListTodaysCheckins returns today's check-in log entries, latest first.
// The day scoping happens server-side against the instance's civil day.
func (c *Client) ListTodaysCheckins(ctx context.Context) ([]checkin.Entry, error) {
	query := "sys_created_onONToday@javascript:gs.beginningOfToday()@javascript:gs.endOfToday()^ORDERBYDESCsys_created_on"
	rows, err := c.getTable(ctx, checkinTable, query)
	if err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	entries := make([]checkin.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, checkin.Entry{
			ElderName: firstString(row, "elderly_name", "name", "u_elderly"),
			ElderRef:  refString(row, "u_elderly"),
			Status:    checkin.ParseStatus(firstString(row, "status", "u_status"), c.windowNames),
			Timestamp: firstString(row, "u_timestamp", "timestamp"),
			CreatedAt: firstString(row, "sys_created_on"),
		})
	}
	return entries, nil
}

// AppendCheckin appends a new check-in log entry.
func (c *Client) AppendCheckin(ctx context.Context, entry NewEntry) error {
	body := map[string]string{
		"u_elderly": entry.ElderRef,
		"name":      entry.ElderName,
		"status":    entry.Status,
	}
	if entry.Timestamp != "" {
		body["u_timestamp"] = entry.Timestamp
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal checkin entry: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/now/table/%s", c.instance, checkinTable)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build checkin request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("append checkin: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("servicenow_write_rejected", "status", resp.StatusCode, "table", checkinTable)
		return fmt.Errorf("append checkin: remote returned %d", resp.StatusCode)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// getTable fetches rows from a table, optionally filtered by an encoded
// sysparm query.
func (c *Client) getTable(ctx context.Context, table, query string) ([]map[string]any, error) {
	endpoint := fmt.Sprintf("%s/api/now/table/%s", c.instance, table)
	if query != "" {
		endpoint += "?sysparm_query=" + url.QueryEscape(query)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote returned %d for %s", resp.StatusCode, table)
	}

	var out tableResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", table, err)
	}
	return out.Result, nil
}

// elderFromRow normalizes a table row, tolerating both bare and u_-prefixed
// field names as the scoped app emits either depending on column origin.
func elderFromRow(row map[string]any) elder.Elder {
	return elder.Elder{
		SysID:        firstString(row, "sys_id"),
		SerialNumber: firstString(row, "serial_number", "u_serial_number"),
		Name:         firstString(row, "name", "u_name"),
		Username:     firstString(row, "elderly_username", "u_elderly_username"),
		PasswordHash: firstString(row, "password_hash", "u_password_hash"),
		Condition:    firstString(row, "condition_special_consideration", "u_condition_special_consideration"),
		Caregiver:    firstString(row, "caregiver_name", "u_caregiver_name"),
		Paused:       elder.ParsePaused(firstValue(row, "paused", "u_paused")),
	}
}

// firstString returns the first non-empty string value among the keys.
// Reference fields arrive as {"value": "...", "link": "..."} objects; their
// value is used.
func firstString(row map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := row[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if s, ok := v["value"].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// refString resolves a reference field to its sys id value.
func refString(row map[string]any, key string) string {
	return firstString(row, key)
}

// firstValue returns the first present value among the keys, untyped.
func firstValue(row map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
