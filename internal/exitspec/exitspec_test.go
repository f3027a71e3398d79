package exitspec_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencluster/framework-job-scheduler/internal/exitspec"
)

func fallbackEntries() []exitspec.Entry {
	return []exitspec.Entry{
		{Code: exitspec.PositiveFallbackCode, Phrase: "UnknownContainerExitCode", Type: "Unknown"},
		{Code: exitspec.NegativeFallbackCode, Phrase: "UnknownPlatformError", Type: "Unknown"},
	}
}

func Test_New(t *testing.T) {
	t.Run("fallback entries are required", func(t *testing.T) {
		_, err := exitspec.New([]exitspec.Entry{{Code: 1, Phrase: "FailedUserProcess"}})
		assert.Error(t, err)
	})

	t.Run("missing negative fallback alone is rejected", func(t *testing.T) {
		_, err := exitspec.New([]exitspec.Entry{{Code: exitspec.PositiveFallbackCode, Phrase: "UnknownContainerExitCode"}})
		assert.Error(t, err)
	})

	t.Run("fallbacks only is a valid table", func(t *testing.T) {
		table, err := exitspec.New(fallbackEntries())
		require.NoError(t, err)
		assert.NotNil(t, table)
	})
}

func Test_Resolve(t *testing.T) {
	entries := append(fallbackEntries(),
		exitspec.Entry{Code: 1, Phrase: "FailedUserProcess", Causer: "USER", Type: "USER_FAILURE"},
		exitspec.Entry{Code: -210, Phrase: "StoppedByUser", Causer: "USER", Type: "USER_STOP"},
	)
	table, err := exitspec.New(entries)
	require.NoError(t, err)

	t.Run("nil code resolves to nil", func(t *testing.T) {
		assert.Nil(t, table.Resolve(nil))
	})

	t.Run("known code resolves to its entry", func(t *testing.T) {
		entry := table.Resolve(ptrInt32(1))
		require.NotNil(t, entry)
		assert.Equal(t, "FailedUserProcess", entry.Phrase)
		assert.Equal(t, int32(1), entry.Code)
	})

	t.Run("known negative code resolves to its entry", func(t *testing.T) {
		entry := table.Resolve(ptrInt32(-210))
		require.NotNil(t, entry)
		assert.Equal(t, "StoppedByUser", entry.Phrase)
	})

	t.Run("unknown positive code falls back with code overwritten", func(t *testing.T) {
		entry := table.Resolve(ptrInt32(137))
		require.NotNil(t, entry)
		assert.Equal(t, "UnknownContainerExitCode", entry.Phrase)
		assert.Equal(t, int32(137), entry.Code)
	})

	t.Run("unknown negative code falls back with code overwritten", func(t *testing.T) {
		entry := table.Resolve(ptrInt32(-999))
		require.NotNil(t, entry)
		assert.Equal(t, "UnknownPlatformError", entry.Phrase)
		assert.Equal(t, int32(-999), entry.Code)
	})

	t.Run("zero falls back to the negative bucket", func(t *testing.T) {
		entry := table.Resolve(ptrInt32(0))
		require.NotNil(t, entry)
		assert.Equal(t, "UnknownPlatformError", entry.Phrase)
		assert.Equal(t, int32(0), entry.Code)
	})

	t.Run("fallback copy does not mutate the table", func(t *testing.T) {
		_ = table.Resolve(ptrInt32(42))
		entry := table.Resolve(ptrInt32(exitspec.PositiveFallbackCode))
		require.NotNil(t, entry)
		assert.Equal(t, exitspec.PositiveFallbackCode, entry.Code)
	})
}

func Test_Load(t *testing.T) {
	t.Run("loads a YAML entry list", func(t *testing.T) {
		content := `
- code: 255
  phrase: UnknownContainerExitCode
  type: Unknown
- code: -8000
  phrase: UnknownPlatformError
  type: Unknown
- code: 1
  phrase: FailedUserProcess
  causer: USER
  solution:
    - Check the user log
`
		path := filepath.Join(t.TempDir(), "job-exit-spec.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		table, err := exitspec.Load(path)
		require.NoError(t, err)
		entry := table.Resolve(ptrInt32(1))
		require.NotNil(t, entry)
		assert.Equal(t, "FailedUserProcess", entry.Phrase)
		assert.Equal(t, []string{"Check the user log"}, entry.Solution)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := exitspec.Load(filepath.Join(t.TempDir(), "no-such-file.yaml"))
		assert.Error(t, err)
	})
}

func ptrInt32(v int32) *int32 {
	return &v
}
