package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tabledash/config"
)

func TestLogFileNameForDate(t *testing.T) {
	when := time.Date(2026, time.January, 22, 12, 0, 0, 0, time.UTC)
	if got := logFileNameForDate(when); got != "tabledash-2026-01-22.log" {
		t.Fatalf("expected tabledash-2026-01-22.log, got %q", got)
	}
}

func TestParseLogFileDate(t *testing.T) {
	parsed, ok := parseLogFileDate("tabledash-2026-01-22.log")
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if parsed.Year() != 2026 || parsed.Month() != time.January || parsed.Day() != 22 {
		t.Fatalf("unexpected parsed date: %s", parsed.Format(time.RFC3339))
	}
	for _, name := range []string{"notes.txt", "other-2026-01-22.log", "tabledash-latest.log"} {
		if _, ok := parseLogFileDate(name); ok {
			t.Fatalf("expected %s to be rejected", name)
		}
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"tabledash-2026-01-20.log",
		"tabledash-2026-01-21.log",
		"tabledash-2026-01-22.log",
		"notes.txt",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	now := time.Date(2026, time.January, 22, 12, 0, 0, 0, time.UTC)
	if err := cleanupOldLogs(dir, now, 2); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tabledash-2026-01-20.log")); !os.IsNotExist(err) {
		t.Fatalf("expected oldest log to be removed, stat err=%v", err)
	}
	for _, name := range []string{"tabledash-2026-01-21.log", "tabledash-2026-01-22.log", "notes.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to remain: %v", name, err)
		}
	}
}

func TestDailyFileSinkRotatesByDay(t *testing.T) {
	dir := t.TempDir()
	sink, err := newDailyFileSink(dir, 7)
	if err != nil {
		t.Fatalf("newDailyFileSink: %v", err)
	}
	defer sink.Close()

	day1 := time.Date(2026, time.January, 22, 23, 59, 0, 0, time.UTC)
	sink.WriteLine("Poller: first", day1)
	sink.WriteLine("Poller: second", day1.Add(2*time.Minute))

	first, err := os.ReadFile(filepath.Join(dir, "tabledash-2026-01-22.log"))
	if err != nil {
		t.Fatalf("read day1: %v", err)
	}
	if !strings.Contains(string(first), "2026/01/22 23:59:00 Poller: first") {
		t.Fatalf("unexpected day1 content %q", first)
	}
	second, err := os.ReadFile(filepath.Join(dir, "tabledash-2026-01-23.log"))
	if err != nil {
		t.Fatalf("read day2: %v", err)
	}
	if !strings.Contains(string(second), "Poller: second") || strings.Contains(string(second), "first") {
		t.Fatalf("unexpected day2 content %q", second)
	}
}

func TestLogFanoutSplitsLines(t *testing.T) {
	var console bytes.Buffer
	fanout := newLogFanout(&ioLineSink{w: &console}, nil)
	logger := log.New(fanout, "", 0)
	logger.Print("UI: one")
	_, _ = fanout.Write([]byte("UI: two\nUI: par"))
	if got := console.String(); got != "UI: one\nUI: two\n" {
		t.Fatalf("unexpected console output %q", got)
	}
	_, _ = fanout.Write([]byte("tial\n"))
	if !strings.HasSuffix(console.String(), "UI: partial\n") {
		t.Fatalf("expected buffered partial line to complete, got %q", console.String())
	}
}

func TestSetupLoggingWritesFileOnlyLines(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	fanout, err := setupLogging(config.LoggingConfig{Enabled: true, Dir: dir, RetentionDays: 3}, &console)
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	now := time.Now().UTC()
	fanout.WriteFileOnlyLine("Poller: fetches=3", now)
	if err := fanout.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if console.Len() != 0 {
		t.Fatalf("expected nothing on the console, got %q", console.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, logFileNameForDate(now)))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "Poller: fetches=3") {
		t.Fatalf("expected file-only line in log, got %q", data)
	}
}

func TestSetupLoggingDisabled(t *testing.T) {
	fanout, err := setupLogging(config.LoggingConfig{}, &bytes.Buffer{})
	if err != nil || fanout == nil || fanout.file != nil {
		t.Fatalf("expected console-only fanout, got %+v err=%v", fanout, err)
	}
}
