// Package testutil provides the shared harness for integration tests that
// run the full planning app against inline HCL definitions.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/stackpipe/internal/app"
	"github.com/vk/stackpipe/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	PlanOutput string
	LogOutput  string
	Err        error
}

// RunPlannerTest writes the given definition files into a temporary root,
// runs the full app against it, and captures the rendered plan, the logs,
// and any error. Startup panics (bad definitions) are recovered into Err so
// tests can assert on them.
func RunPlannerTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfg, err := app.NewConfig(app.Config{
		DefinitionPath: tmpDir,
		LogFormat:      "text",
		LogLevel:       "debug",
	})
	require.NoError(t, err)

	var planBuf bytes.Buffer
	logBuf := &SafeBuffer{}
	result := &HarnessResult{}

	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("startup failed: %v", r)
			}
		}()
		a := app.NewApp(&planBuf, logBuf, cfg, hcl.NewLoader())
		result.Err = a.Run(context.Background())
	}()

	result.PlanOutput = planBuf.String()
	result.LogOutput = logBuf.String()
	return result
}
