// Package gsuite exports studio artifacts to Google Docs, Sheets, and
// Gmail through their REST APIs.
package gsuite

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nanopack/internal/compliance"
	"nanopack/internal/errors"
)

// Client calls the Docs, Sheets, and Gmail APIs with a user's OAuth
// access token.
type Client struct {
	token    string
	docsURL  string
	sheetURL string
	gmailURL string
	client   *http.Client
	log      *zap.Logger
}

// Option configures the client.
type Option func(*Client)

// WithBaseURLs overrides the API endpoints, primarily for tests. Empty
// values keep the defaults.
func WithBaseURLs(docs, sheets, gmail string) Option {
	return func(c *Client) {
		if docs != "" {
			c.docsURL = strings.TrimRight(docs, "/")
		}
		if sheets != "" {
			c.sheetURL = strings.TrimRight(sheets, "/")
		}
		if gmail != "" {
			c.gmailURL = strings.TrimRight(gmail, "/")
		}
	}
}

// NewClient creates a client for the given access token.
func NewClient(token string, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		token:    token,
		docsURL:  "https://docs.googleapis.com",
		sheetURL: "https://sheets.googleapis.com",
		gmailURL: "https://gmail.googleapis.com",
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateTechSheet creates a Google Doc titled for the project and fills
// it with the tech sheet text. Returns the document's edit URL.
func (c *Client) CreateTechSheet(ctx context.Context, projectName, content string) (string, error) {
	title := fmt.Sprintf("Tech Sheet: %s - %s", projectName, time.Now().UTC().Format("2006-01-02"))

	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := c.postJSON(ctx, c.docsURL+"/v1/documents",
		map[string]string{"title": title}, &created); err != nil {
		return "", errors.NewExportFailed(fmt.Sprintf("create document: %v", err))
	}
	if created.DocumentID == "" {
		return "", errors.NewExportFailed("create document: no documentId in response")
	}

	update := map[string]any{
		"requests": []map[string]any{
			{
				"insertText": map[string]any{
					"text":     content,
					"location": map[string]any{"index": 1},
				},
			},
		},
	}
	if err := c.postJSON(ctx, c.docsURL+"/v1/documents/"+created.DocumentID+":batchUpdate", update, nil); err != nil {
		return "", errors.NewExportFailed(fmt.Sprintf("write document: %v", err))
	}

	url := "https://docs.google.com/document/d/" + created.DocumentID + "/edit"
	c.log.Info("tech sheet exported", zap.String("document_id", created.DocumentID))
	return url, nil
}

// ExportComplianceSheet creates a spreadsheet holding the compliance
// report and returns its edit URL.
func (c *Client) ExportComplianceSheet(ctx context.Context, projectName string, report *compliance.Report) (string, error) {
	if report == nil {
		return "", errors.NewExportFailed("no compliance report to export")
	}

	var created struct {
		SpreadsheetID string `json:"spreadsheetId"`
	}
	if err := c.postJSON(ctx, c.sheetURL+"/v4/spreadsheets",
		map[string]any{"properties": map[string]string{"title": "Compliance Report: " + projectName}},
		&created); err != nil {
		return "", errors.NewExportFailed(fmt.Sprintf("create spreadsheet: %v", err))
	}
	if created.SpreadsheetID == "" {
		return "", errors.NewExportFailed("create spreadsheet: no spreadsheetId in response")
	}

	values := [][]any{
		{"Metric", "Value", "Status"},
		{"Project", projectName, ""},
		{"Date", time.Now().UTC().Format("2006-01-02"), ""},
		{"Safety Score", report.Score, string(report.Status)},
		{"Regulatory Body", report.RegulatoryBody, ""},
		{"Detected Industry", report.DetectedIndustry, ""},
		{},
		{"Checks Performed", "", ""},
	}
	for _, check := range report.Checks {
		verdict := "FAIL"
		if check.Passed {
			verdict = "PASS"
		}
		values = append(values, []any{check.Name, check.Details, verdict})
	}
	found := "No"
	if report.IngredientAnalysis.Found {
		found = "Yes"
	}
	flagged := strings.Join(report.IngredientAnalysis.FlaggedIngredients, ", ")
	if flagged == "" {
		flagged = "None"
	}
	values = append(values,
		[]any{},
		[]any{"Ingredients Found", found, ""},
		[]any{"Flagged Ingredients", flagged, ""},
	)

	updateURL := c.sheetURL + "/v4/spreadsheets/" + created.SpreadsheetID +
		"/values/Sheet1!A1?valueInputOption=RAW"
	if err := c.putJSON(ctx, updateURL, map[string]any{"values": values}); err != nil {
		return "", errors.NewExportFailed(fmt.Sprintf("write spreadsheet: %v", err))
	}

	url := "https://docs.google.com/spreadsheets/d/" + created.SpreadsheetID + "/edit"
	c.log.Info("compliance sheet exported", zap.String("spreadsheet_id", created.SpreadsheetID))
	return url, nil
}

// CreateDraftEmail drafts an approval-request email in the user's Gmail
// account.
func (c *Client) CreateDraftEmail(ctx context.Context, recipient, projectName, body string) error {
	lines := []string{
		"To: " + recipient,
		"Subject: Approval Needed: " + projectName,
		"Content-Type: text/plain; charset=utf-8",
		"MIME-Version: 1.0",
		"",
		body,
	}
	raw := base64.RawURLEncoding.EncodeToString([]byte(strings.Join(lines, "\r\n")))

	payload := map[string]any{
		"message": map[string]string{"raw": raw},
	}
	if err := c.postJSON(ctx, c.gmailURL+"/gmail/v1/users/me/drafts", payload, nil); err != nil {
		return errors.NewExportFailed(fmt.Sprintf("create draft: %v", err))
	}

	c.log.Info("approval draft created", zap.String("recipient", recipient))
	return nil
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPost, url, body, out)
}

func (c *Client) putJSON(ctx context.Context, url string, body any) error {
	return c.sendJSON(ctx, http.MethodPut, url, body, nil)
}

func (c *Client) sendJSON(ctx context.Context, method, url string, body, out any) error {
	if c.token == "" {
		return fmt.Errorf("no access token")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(errBody))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
