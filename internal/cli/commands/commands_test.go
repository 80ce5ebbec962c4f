package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
server:
  base_url: http://example.test
pagination:
  default_size: 2
  max_size: 10
log:
  level: error
resources:
  - name: user
    attributes: [name]
    relationships:
      - name: posts
        type: has_many
        target: post
        foreign_key: author_id
        route: true
  - name: post
    attributes: [title]
    relationships:
      - name: author
        type: belongs_to
        target: user
`

const testFixture = `
users:
  - id: 7
    name: Ann
posts:
  - id: 1
    title: Hello
    author: 7
  - id: 2
    title: World
    author: 7
  - id: 3
    title: Again
    author: 7
`

func writeFiles(t *testing.T) (configFile, fixtureFile string) {
	dir := t.TempDir()
	configFile = filepath.Join(dir, "jsonres.yaml")
	fixtureFile = filepath.Join(dir, "blog.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(testConfig), 0o644))
	require.NoError(t, os.WriteFile(fixtureFile, []byte(testFixture), 0o644))
	return configFile, fixtureFile
}

func execute(t *testing.T, args ...string) (string, error) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "jsonres", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"serve", "render", "routes", "version"} {
		assert.Contains(t, names, expected)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "jsonres version: dev")
	assert.Contains(t, out, "Go version: go")
}

func TestRenderShow(t *testing.T) {
	configFile, fixtureFile := writeFiles(t)

	out, err := execute(t, "render", "--config", configFile, "--fixture", fixtureFile,
		"--type", "posts", "--id", "1", "--include", "author", "--compact")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "1", doc["data"].(map[string]any)["id"])
	assert.Len(t, doc["included"], 1)
	assert.Equal(t, "/posts/1", doc["links"].(map[string]any)["self"])
}

func TestRenderCollection(t *testing.T) {
	configFile, fixtureFile := writeFiles(t)

	out, err := execute(t, "render", "-c", configFile, "-f", fixtureFile, "-t", "post", "--page", "2", "-i", "author")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n  \"data\""), out)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc["data"], 1)

	links := doc["links"].(map[string]any)
	assert.Equal(t, "/posts?include=author&page%5Bnumber%5D=1&page%5Bsize%5D=2", links["prev"])
	assert.Nil(t, links["next"])
}

func TestRenderUnknownType(t *testing.T) {
	configFile, fixtureFile := writeFiles(t)

	_, err := execute(t, "render", "-c", configFile, "-f", fixtureFile, "-t", "pots")
	require.ErrorIs(t, err, errUnknownType)

	var display *displayError
	require.ErrorAs(t, err, &display)
	assert.Contains(t, display.message, "Did you mean: posts?")
}

func TestRenderMissingRecord(t *testing.T) {
	configFile, fixtureFile := writeFiles(t)

	_, err := execute(t, "render", "-c", configFile, "-f", fixtureFile, "-t", "posts", "--id", "99")
	assert.Error(t, err)
}

func TestRoutesCommand(t *testing.T) {
	configFile, _ := writeFiles(t)

	out, err := execute(t, "routes", "--config", configFile, "--no-color")
	require.NoError(t, err)

	for _, expected := range []string{"users.index", "users.show", "posts.index", "posts.show", "users.posts", "/users/{author}/posts"} {
		assert.Contains(t, out, expected)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "jsonres.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("database:\n  driver: oracle\n"), 0o644))

	_, err := execute(t, "routes", "--config", configFile)
	var display *displayError
	require.ErrorAs(t, err, &display)
	assert.Contains(t, display.message, "database.driver")
}
