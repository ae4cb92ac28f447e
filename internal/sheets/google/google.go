package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
	ports "github.com/edukadoshmda-ops/gestaoigreja/internal/sheets"
)

// Client mirrors ledger transactions into a Google Sheets workbook.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.TransactionMirror = (*Client)(nil)

// NewFromEnv creates a mirror client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Sheet name: GOOGLE_SHEET_NAME (default "Livro Caixa"), prefixed with the
// current year so each year gets its own tab.
// Auth, tried in order: OAuth client+token (GOOGLE_OAUTH_CLIENT_JSON /
// GOOGLE_OAUTH_CLIENT_FILE with GOOGLE_OAUTH_TOKEN_JSON /
// GOOGLE_OAUTH_TOKEN_FILE), then service account credentials
// (GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS).
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	base := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if base == "" {
		base = "Livro Caixa"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     yearPrefixedName(base, time.Now().Year()),
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	if hasOAuthConfig() {
		httpClient, err := oauthHTTPClient(ctx)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "Creating Google Sheets service with OAuth client")
		return gsheet.NewService(ctx, goption.WithHTTPClient(httpClient))
	}

	credentialsJSON, err := serviceAccountCredentials()
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON))
	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

func hasOAuthConfig() bool {
	return os.Getenv("GOOGLE_OAUTH_CLIENT_JSON") != "" || os.Getenv("GOOGLE_OAUTH_CLIENT_FILE") != ""
}

// oauthHTTPClient builds an HTTP client from the OAuth client config and
// the token produced by cmd/oauth-init. The token source refreshes
// automatically.
func oauthHTTPClient(ctx context.Context) (*http.Client, error) {
	cfg, tok, err := oauthClient()
	if err != nil {
		return nil, err
	}
	return cfg.Client(ctx, tok), nil
}

func oauthClient() (cfg *oauth2.Config, tok *oauth2.Token, err error) {
	clientJSON, err := readEnvJSON("GOOGLE_OAUTH_CLIENT_JSON", "GOOGLE_OAUTH_CLIENT_FILE")
	if err != nil {
		return nil, nil, fmt.Errorf("oauth client config: %w", err)
	}
	cfg, err = googleauth.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, nil, fmt.Errorf("parse oauth client config: %w", err)
	}

	tokenJSON, err := readEnvJSON("GOOGLE_OAUTH_TOKEN_JSON", "GOOGLE_OAUTH_TOKEN_FILE")
	if err != nil {
		return nil, nil, fmt.Errorf("oauth token (run oauth-init first): %w", err)
	}
	tok = &oauth2.Token{}
	if err := json.Unmarshal(tokenJSON, tok); err != nil {
		return nil, nil, fmt.Errorf("parse oauth token: %w", err)
	}
	return cfg, tok, nil
}

func readEnvJSON(jsonVar, fileVar string) ([]byte, error) {
	if v := strings.TrimSpace(os.Getenv(jsonVar)); v != "" {
		return []byte(v), nil
	}
	if path := strings.TrimSpace(os.Getenv(fileVar)); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("set %s or %s", jsonVar, fileVar)
}

func serviceAccountCredentials() ([]byte, error) {
	if v := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); v != "" {
		return []byte(v), nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing credentials (set OAuth client/token or service account variables)")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

// Append writes one transaction row and returns the updated range as the
// mirror reference.
func (c *Client) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:F", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{mirrorRow(tx)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

// mirrorRow is the workbook layout: date, kind, category, amount in
// reais, description, ledger id.
func mirrorRow(tx core.Transaction) []any {
	return []any{
		fmt.Sprintf("%04d-%02d-%02d", tx.Date.Year(), tx.Date.Month(), tx.Date.Day()),
		kindLabel(tx.Kind),
		tx.Category,
		float64(tx.Amount.Cents) / 100.0,
		tx.Description,
		tx.ID,
	}
}

func kindLabel(k core.Kind) string {
	switch k {
	case core.Inflow:
		return "Entrada"
	case core.Outflow:
		return "Saída"
	default:
		return string(k)
	}
}

// yearPrefixedName returns "<year> <base>" unless base already starts
// with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
