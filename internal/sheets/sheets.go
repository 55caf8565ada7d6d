// Package sheets reads keyword rows from Google Sheets. The first row
// of each range is treated as a header; remaining rows become maps
// keyed by the lowercased header names.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/datara-labs/datara-bot/internal/errors"
)

// Row is a single spreadsheet row keyed by lowercased header names.
type Row map[string]string

// Get returns the trimmed cell value for the given header name.
func (r Row) Get(key string) string {
	return strings.TrimSpace(r[strings.ToLower(key)])
}

// RowSource fetches rows from one spreadsheet range.
type RowSource interface {
	Rows(ctx context.Context, spreadsheetID, readRange string) ([]Row, error)
}

// Client reads spreadsheet values through the Sheets API.
type Client struct {
	svc *sheetsapi.Service
}

// NewClient creates a Sheets API client. A service account credentials
// file takes precedence over an API key.
func NewClient(ctx context.Context, apiKey, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case credentialsFile != "":
		opts = append(opts,
			option.WithCredentialsFile(credentialsFile),
			option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope),
		)
	case apiKey != "":
		opts = append(opts, option.WithAPIKey(apiKey))
	default:
		return nil, fmt.Errorf("sheets: no API key or credentials file provided")
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Rows fetches the given range and maps it by header row.
func (c *Client) Rows(ctx context.Context, spreadsheetID, readRange string) ([]Row, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, errors.NewDataSourceError(spreadsheetID, err)
	}
	return mapRows(resp.Values), nil
}

// mapRows converts raw sheet values into header-keyed rows. Header
// names are trimmed and lowercased. Rows with no non-empty cells and
// rows beyond the header width are handled gracefully.
func mapRows(values [][]any) []Row {
	if len(values) < 2 {
		return nil
	}

	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(cellString(h)))
	}

	rows := make([]Row, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(Row, len(headers))
		empty := true
		for i, cell := range raw {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			value := strings.TrimSpace(cellString(cell))
			if value != "" {
				empty = false
			}
			row[headers[i]] = value
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
