package logger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

const (
	// MaxCrashLogs is how many crash reports are kept on disk.
	MaxCrashLogs = 10

	crashPrefix = "crash_"
	crashSuffix = ".json"

	maxInputLen        = 500
	maxRequirementsLen = 2000
)

// CrashContext is what a crash report knows about the run that panicked.
type CrashContext struct {
	mu sync.RWMutex

	dir     string
	version string
	command string
	backend string

	// consultation state at the time of the crash
	lastInput    string
	requirements string
}

var globalContext = &CrashContext{}

func (c *CrashContext) set(fn func(*CrashContext)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}

// SetCrashDir sets the directory crash reports are written to.
func SetCrashDir(dir string) { globalContext.set(func(c *CrashContext) { c.dir = dir }) }

// SetVersion records the running DBAtlas version.
func SetVersion(version string) { globalContext.set(func(c *CrashContext) { c.version = version }) }

// SetCommand records the command path being executed.
func SetCommand(cmd string) { globalContext.set(func(c *CrashContext) { c.command = cmd }) }

// SetBackend records the storage backend in use.
func SetBackend(name string) { globalContext.set(func(c *CrashContext) { c.backend = name }) }

// SetLastInput records the last message sent to the consultant.
func SetLastInput(input string) {
	input = clip(strings.TrimSpace(input), maxInputLen)
	globalContext.set(func(c *CrashContext) { c.lastInput = input })
}

// SetRequirements records the consultant's requirements summary.
func SetRequirements(summary string) {
	summary = clip(summary, maxRequirementsLen)
	globalContext.set(func(c *CrashContext) { c.requirements = summary })
}

func clip(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashLog is one crash report as stored on disk.
type CrashLog struct {
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version"`
	Command      string    `json:"command"`
	Backend      string    `json:"storage_backend,omitempty"`
	PanicValue   string    `json:"panic_value"`
	StackTrace   string    `json:"stack_trace"`
	LastInput    string    `json:"last_input,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	GoVersion    string    `json:"go_version"`
	OS           string    `json:"os"`
	Arch         string    `json:"arch"`
}

// HandlePanic recovers a panic, writes a crash report and exits with status 1.
// Use it as the first deferred call in main.
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	report := newCrashLog(r)
	path, err := writeCrashLog(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n[CRASH] %v\n%s\n[CRASH] could not save crash report: %v\n", r, report.StackTrace, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\n🔴 DBAtlas crashed while running %q.\n\n", report.Command)
	fmt.Fprintf(os.Stderr, "Crash report: %s\n", path)
	fmt.Fprintf(os.Stderr, "List reports:  dbatlas config crash-logs\n")
	fmt.Fprintf(os.Stderr, "Report issues: https://github.com/josephgoksu/DBAtlas/issues\n\n")
	os.Exit(1)
}

func newCrashLog(panicValue any) CrashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashLog{
		Timestamp:    time.Now(),
		Version:      globalContext.version,
		Command:      globalContext.command,
		Backend:      globalContext.backend,
		PanicValue:   fmt.Sprint(panicValue),
		StackTrace:   string(debug.Stack()),
		LastInput:    globalContext.lastInput,
		Requirements: globalContext.requirements,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
	}
}

func writeCrashLog(report CrashLog) (string, error) {
	dir := crashDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}
	if err := pruneCrashLogs(dir); err != nil {
		slog.Warn("prune crash logs", "dir", dir, "error", err)
	}

	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash log: %w", err)
	}
	path := crashLogPath(report.Timestamp)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}

func crashDir() string {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()
	if globalContext.dir == "" {
		return filepath.Join(".dbatlas", "logs")
	}
	return globalContext.dir
}

func crashLogPath(t time.Time) string {
	return filepath.Join(crashDir(), crashPrefix+t.Format("20060102_150405.000")+crashSuffix)
}

// crashLogNames lists crash report file names in dir, oldest first.
// os.ReadDir sorts by name and names embed the timestamp.
func crashLogNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), crashPrefix) && strings.HasSuffix(e.Name(), crashSuffix) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// pruneCrashLogs leaves room for one more report under MaxCrashLogs.
func pruneCrashLogs(dir string) error {
	names, err := crashLogNames(dir)
	if err != nil {
		return err
	}
	for len(names) >= MaxCrashLogs {
		if err := os.Remove(filepath.Join(dir, names[0])); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", names[0], err)
		}
		names = names[1:]
	}
	return nil
}

// ListCrashLogs returns the paths of all crash reports, oldest first.
func ListCrashLogs() ([]string, error) {
	dir := crashDir()
	names, err := crashLogNames(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// ReadCrashLog decodes the crash report at path.
func ReadCrashLog(path string) (CrashLog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return CrashLog{}, err
	}
	var report CrashLog
	if err := json.Unmarshal(content, &report); err != nil {
		return CrashLog{}, fmt.Errorf("decode crash log %s: %w", path, err)
	}
	return report, nil
}
