package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSceneFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "full_metadata.yaml",
			content: `# Scene: Slab
# Variant: Thin
# Description: A thin cut slab
# Group: Cutaways

filename: slab
steps: []`,
			expected: SceneInfo{
				ID:          "file:full_metadata",
				Name:        "Slab",
				DisplayName: "Slab - Thin",
				Description: "A thin cut slab",
				Group:       "Cutaways",
				Type:        "file",
				Variant:     "Thin",
			},
		},
		{
			name: "partial_metadata.yaml",
			content: `# Scene: Spheres
# Description: Sphere stack

steps: []`,
			expected: SceneInfo{
				ID:          "file:partial_metadata",
				Name:        "Spheres",
				DisplayName: "Spheres",
				Description: "Sphere stack",
				Group:       "Scene Files",
				Type:        "file",
			},
		},
		{
			name:    "no_metadata.yml",
			content: `steps: []`,
			expected: SceneInfo{
				ID:          "file:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        "file",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSceneFile(t, t.TempDir(), tc.name, tc.content)

			result, err := ParseSceneMetadata(path)
			require.NoError(t, err)

			tc.expected.FilePath = path
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestParseSceneMetadata_IgnoresLaterComments(t *testing.T) {
	path := writeSceneFile(t, t.TempDir(), "mixed.yaml", `# Scene: Test Scene
filename: mixed
# Variant: Ignored`)

	result, err := ParseSceneMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Scene", result.Name)
	assert.Empty(t, result.Variant)
}

func TestParseSceneMetadata_Malformed(t *testing.T) {
	path := writeSceneFile(t, t.TempDir(), "malformed.yaml", `#Scene: Missing space
#Variant:
# Description:   Extra spaces
#Group:`)

	result, err := ParseSceneMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "Malformed", result.Name)
	assert.Equal(t, "Extra spaces", result.Description)
	assert.Equal(t, "Scene Files", result.Group)
}

func TestParseSceneMetadata_MissingFile(t *testing.T) {
	result, err := ParseSceneMetadata("nonexistent.yaml")
	require.NoError(t, err)
	assert.Equal(t, "file:nonexistent", result.ID)
	assert.Equal(t, "Nonexistent", result.DisplayName)
}

func TestListSceneFiles(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "b_scene.yaml", "# Scene: Beta\nsteps: []")
	writeSceneFile(t, dir, "a_scene.yml", "# Scene: Alpha\nsteps: []")
	writeSceneFile(t, dir, "notes.txt", "# Scene: Ignored")

	scenes, err := ListSceneFiles(dir)
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.Equal(t, "Alpha", scenes[0].DisplayName)
	assert.Equal(t, "Beta", scenes[1].DisplayName)
}

func TestListSceneFiles_MissingDirectory(t *testing.T) {
	scenes, err := ListSceneFiles(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.NotNil(t, scenes)
	assert.Empty(t, scenes)
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "slab.yaml", "# Scene: Slab\n# Group: Cutaways\nsteps: []")
	writeSceneFile(t, dir, "loose.yaml", "steps: []")

	response, err := ListAllScenes(dir)
	require.NoError(t, err)
	require.Len(t, response.Groups, 3)

	assert.Equal(t, "Built-in Scenes", response.Groups[0].Name)
	assert.Equal(t, "Cutaways", response.Groups[1].Name)
	assert.Equal(t, "Scene Files", response.Groups[2].Name)

	ids := make([]string, 0, len(response.Groups[0].Scenes))
	for _, s := range response.Groups[0].Scenes {
		ids = append(ids, s.ID)
		assert.Equal(t, "builtin", s.Type)
	}
	assert.ElementsMatch(t, []string{"primitives", "cutaway", "materials"}, ids)

	for _, group := range response.Groups[1:] {
		for _, s := range group.Scenes {
			assert.Equal(t, "file", s.Type)
			assert.NotEmpty(t, s.FilePath)
			assert.True(t, strings.HasPrefix(s.ID, "file:"), s.ID)
		}
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Cutaway Slab", titleCase("cutaway-slab"))
	assert.Equal(t, "Two Spheres", titleCase("two_SPHERES"))
	assert.Equal(t, "", titleCase(""))
}
