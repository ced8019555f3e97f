package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name        string
		curlCmd     string
		wantHeaders map[string]string
		wantURL     string
		wantErr     bool
	}{
		{
			name:        "single header with single quotes",
			curlCmd:     `curl -H 'Authorization: Bearer token123' https://api.themoviedb.org/3/movie/popular`,
			wantHeaders: map[string]string{"Authorization": "Bearer token123"},
			wantURL:     "https://api.themoviedb.org/3/movie/popular",
		},
		{
			name:        "single header with double quotes",
			curlCmd:     `curl -H "Authorization: Bearer token123" https://api.themoviedb.org/3`,
			wantHeaders: map[string]string{"Authorization": "Bearer token123"},
			wantURL:     "https://api.themoviedb.org/3",
		},
		{
			name: "tmdb reference snippet",
			curlCmd: `curl --request GET \
     --url 'https://api.themoviedb.org/3/movie/popular?language=en-US&page=1' \
     --header 'Authorization: Bearer eyJhbGciOi' \
     --header 'accept: application/json'`,
			wantHeaders: map[string]string{
				"Authorization": "Bearer eyJhbGciOi",
				"accept":        "application/json",
			},
			wantURL: "https://api.themoviedb.org/3/movie/popular?language=en-US&page=1",
		},
		{
			name:        "headers with spaces around colon",
			curlCmd:     `curl -H 'Authorization : Bearer token' https://api.example.com`,
			wantHeaders: map[string]string{"Authorization": "Bearer token"},
			wantURL:     "https://api.example.com",
		},
		{
			name:    "no headers",
			curlCmd: `curl https://api.example.com`,
			wantErr: true,
		},
		{
			name:    "empty command",
			curlCmd: "",
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseCurlCommand(tc.curlCmd)

			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCurlCommand() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}

			if len(result.Headers) != len(tc.wantHeaders) {
				t.Errorf("ParseCurlCommand() headers count = %v, want %v", len(result.Headers), len(tc.wantHeaders))
			}

			for key, want := range tc.wantHeaders {
				if got := result.Headers[key]; got != want {
					t.Errorf("ParseCurlCommand() header[%s] = %v, want %v", key, got, want)
				}
			}

			if result.URL != tc.wantURL {
				t.Errorf("ParseCurlCommand() url = %v, want %v", result.URL, tc.wantURL)
			}
		})
	}
}

func TestCurlRequest_BearerToken(t *testing.T) {
	tt := []struct {
		name    string
		headers map[string]string
		want    string
		wantErr bool
	}{
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer abc"}, want: "abc"},
		{name: "lowercase header and scheme", headers: map[string]string{"authorization": "bearer abc"}, want: "abc"},
		{name: "missing header", headers: map[string]string{"accept": "application/json"}, wantErr: true},
		{name: "basic auth", headers: map[string]string{"Authorization": "Basic dXNlcg=="}, wantErr: true},
		{name: "empty token", headers: map[string]string{"Authorization": "Bearer "}, wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			req := &CurlRequest{Headers: tc.headers}
			got, err := req.BearerToken()
			if (err != nil) != tc.wantErr {
				t.Fatalf("BearerToken() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr && !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
			if got != tc.want {
				t.Errorf("BearerToken() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseCurlFile(t *testing.T) {
	t.Run("successful file parse", func(t *testing.T) {
		curlFile := filepath.Join(t.TempDir(), "curl.sh")

		curlCmd := `curl -H 'Authorization: Bearer token123' -H 'accept: application/json' https://api.themoviedb.org/3`
		if err := os.WriteFile(curlFile, []byte(curlCmd), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		result, err := ParseCurlFile(curlFile)
		if err != nil {
			t.Fatalf("ParseCurlFile() error = %v", err)
		}

		token, err := result.BearerToken()
		if err != nil {
			t.Fatalf("BearerToken() error = %v", err)
		}
		if token != "token123" {
			t.Errorf("BearerToken() = %v, want token123", token)
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/file.sh"); err == nil {
			t.Error("ParseCurlFile() expected error for nonexistent file")
		}
	})
}
