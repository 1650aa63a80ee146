// Package testutil provides shared test helpers for creating config
// files and fixture data.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file and the directories it
// points at. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	for _, d := range []string{"cache", "reports"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`store:
  base_url: https://store.example.com
  api_key: fake-key-for-testing
  collection: vocabulary
openai:
  cache_directory: %s
outputs:
  report_directory: %s
`,
		filepath.Join(tmpDir, "cache"),
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupBlocksFile writes a recurring time-block fixture and returns its
// path.
func SetupBlocksFile(t *testing.T, tmpDir string) string {
	t.Helper()

	content := `blocks:
  - name: Morning study
    days: [monday, tuesday, wednesday, thursday, friday]
    start_time: "08:00"
    end_time: "09:00"
    category: Study
    priority: High
  - name: Weekend review
    days: [saturday, sunday]
    start_time: "10:00"
    end_time: "11:00"
    category: Study
    priority: Mid
`
	path := filepath.Join(tmpDir, "blocks.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
