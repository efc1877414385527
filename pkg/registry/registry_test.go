// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", reg.Version)
	require.NotEmpty(t, reg.Activities)

	ids := make(map[string]bool)
	for _, activity := range reg.Activities {
		assert.NotEmpty(t, activity.ID)
		assert.NotEmpty(t, activity.DisplayName)
		assert.NotEmpty(t, activity.TaskType)
		assert.Contains(t, []string{"application", "data-access"}, activity.Category)
		assert.False(t, ids[activity.ID], "duplicate activity ID %s", activity.ID)
		ids[activity.ID] = true
	}

	assert.True(t, ids["assess-eligibility"])
	assert.True(t, ids["create-assessment-record"])
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadRegistry_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadRegistry(path)
	assert.Error(t, err)
}
