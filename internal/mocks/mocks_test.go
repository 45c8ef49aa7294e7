package mocks

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
)

func TestMockFileSystem(t *testing.T) {
	mockFS := NewMockFileSystem()

	// Test WriteFile and ReadFile
	if err := mockFS.WriteFile("/test/file.txt", []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	content, err := mockFS.ReadFile("/test/file.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("content = %q, expected %q", string(content), "hello")
	}

	// Test Stat after WriteFile
	info, err := mockFS.Stat("/test/file.txt")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 5 {
		t.Errorf("size = %d, expected 5", info.Size())
	}

	// Test ReadFile for non-existent file
	if _, err := mockFS.ReadFile("/nonexistent"); err == nil {
		t.Error("ReadFile should fail for non-existent file")
	}

	// Test error injection
	mockFS.Errors["/error/path"] = errors.New("injected error")
	_, err = mockFS.ReadFile("/error/path")
	if err == nil || err.Error() != "injected error" {
		t.Errorf("Expected injected error, got: %v", err)
	}

	if len(mockFS.ReadFileCalls) != 3 {
		t.Errorf("ReadFileCalls = %v, expected 3 calls", mockFS.ReadFileCalls)
	}
}

func TestMockFileSystemMkdirAll(t *testing.T) {
	mockFS := NewMockFileSystem()

	if err := mockFS.MkdirAll("/out/project", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	info, err := mockFS.Stat("/out/project")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Error("directory should be marked as dir")
	}
}

func TestMockHTTPClient(t *testing.T) {
	client := NewMockHTTPClient()
	client.Responses["https://example.com/a.zip"] = []byte("PK")
	client.StatusCodes["https://example.com/boom"] = http.StatusInternalServerError

	tests := []struct {
		url    string
		status int
		body   string
	}{
		{"https://example.com/a.zip", http.StatusOK, "PK"},
		{"https://example.com/missing", http.StatusNotFound, ""},
		{"https://example.com/boom", http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, tt.url, nil)
		if err != nil {
			t.Fatalf("NewRequest failed: %v", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Do failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode != tt.status {
			t.Errorf("%s: status = %d, expected %d", tt.url, resp.StatusCode, tt.status)
		}
		if string(body) != tt.body {
			t.Errorf("%s: body = %q, expected %q", tt.url, body, tt.body)
		}
	}

	if client.RequestCount() != 3 {
		t.Errorf("RequestCount = %d, expected 3", client.RequestCount())
	}
}

func TestMockHTTPClientError(t *testing.T) {
	client := NewMockHTTPClient()
	client.Err = errors.New("connection refused")

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	if _, err := client.Do(req); err == nil {
		t.Error("Do should return the configured error")
	}
}

func TestMockClipboard(t *testing.T) {
	clip := NewMockClipboard()

	if err := clip.WriteAll("copied"); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	if clip.Text != "copied" {
		t.Errorf("Text = %q, expected %q", clip.Text, "copied")
	}

	clip.Err = errors.New("no clipboard")
	if err := clip.WriteAll("again"); err == nil {
		t.Error("WriteAll should return the configured error")
	}
	if clip.Text != "copied" {
		t.Errorf("Text = %q, expected unchanged", clip.Text)
	}
	if clip.WriteCalls != 2 {
		t.Errorf("WriteCalls = %d, expected 2", clip.WriteCalls)
	}
}

func TestMockTUIService(t *testing.T) {
	svc := NewMockTUIService()
	svc.AnalyzeErrors["bad.txt"] = errors.New("invalid")
	svc.Contents["main.go"] = "package main"

	published := ""
	svc.OnAnalyze = func(source string) { published = source }

	if err := svc.Analyze(context.Background(), "good.zip"); err != nil {
		t.Errorf("Analyze failed: %v", err)
	}
	if published != "good.zip" {
		t.Errorf("OnAnalyze got %q, expected good.zip", published)
	}
	if err := svc.Analyze(context.Background(), "bad.txt"); err == nil {
		t.Error("Analyze should return the configured error")
	}
	if svc.AnalyzeCount() != 2 {
		t.Errorf("AnalyzeCount = %d, expected 2", svc.AnalyzeCount())
	}

	content, err := svc.Content("main.go")
	if err != nil || content != "package main" {
		t.Errorf("Content = %q, %v", content, err)
	}
	if _, err := svc.Content("missing"); err == nil {
		t.Error("Content should fail for unknown paths")
	}

	if err := svc.Copy("x"); err != nil || len(svc.Copied) != 1 {
		t.Errorf("Copy = %v, Copied = %v", err, svc.Copied)
	}
	path, err := svc.Save("src/a.go", "package a")
	if err != nil || path != "/saved/src/a.go" {
		t.Errorf("Save = %q, %v", path, err)
	}
}
