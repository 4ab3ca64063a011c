package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// GoogleClientOptions builds API client options from a service-account JSON
// document (preferred) or a credentials file path.
func GoogleClientOptions(ctx context.Context, credentialsJSON, credentialsPath string, scopes ...string) ([]option.ClientOption, error) {
	if strings.TrimSpace(credentialsJSON) != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(credentialsJSON), scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse google credentials: %w", err)
		}
		return []option.ClientOption{option.WithTokenSource(creds.TokenSource)}, nil
	}
	if strings.TrimSpace(credentialsPath) != "" {
		// option.WithCredentialsFile handles Service Account authentication
		return []option.ClientOption{option.WithCredentialsFile(credentialsPath), option.WithScopes(scopes...)}, nil
	}
	return nil, fmt.Errorf("google credentials not configured")
}
