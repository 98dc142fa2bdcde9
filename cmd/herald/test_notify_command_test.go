package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"herald/internal/testsupport"
)

func TestTestNotifyPostsToConfiguredTopic(t *testing.T) {
	var gotTitle, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithNtfyTopic(server.URL+"/herald"))

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")
	if gotTitle != "Herald - Test" {
		t.Fatalf("expected test notification title, got %q", gotTitle)
	}
	if gotBody != "Notification system test" {
		t.Fatalf("unexpected notification body %q", gotBody)
	}
}

func TestTestNotifyReportsDisabledWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notifications disabled (no ntfy topic configured)")
}
