package clix

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestbox/internal/models"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("limit", 20, "")
	fs.Int("offset", 0, "")
	fs.String("category", "", "")
	fs.String("file", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestParsePagination(t *testing.T) {
	p, err := ParsePagination(newFlags(t, "--limit", "0", "--offset", "-3"))
	require.NoError(t, err)
	assert.Equal(t, PaginationParams{Limit: 20, Offset: 0}, p)

	p, err = ParsePagination(newFlags(t, "--limit", "2", "--offset", "1"))
	require.NoError(t, err)
	start, end := p.Page(5)
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, end)

	start, end = PaginationParams{Limit: 10, Offset: 8}.Page(3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(newFlags(t, "--category", "work process"))
	require.NoError(t, err)
	assert.Equal(t, models.CategoryWorkProcess, c)

	c, err = ParseCategory(newFlags(t))
	require.NoError(t, err)
	assert.Empty(t, c)

	_, err = ParseCategory(newFlags(t, "--category", "snacks"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestReadText(t *testing.T) {
	got, err := ReadText(newFlags(t), []string{"more", "coffee"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "more coffee", got)

	got, err = ReadText(newFlags(t), nil, strings.NewReader("from stdin\n"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	dir := t.TempDir()
	path := filepath.Join(dir, "suggestion.txt")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFfrom a file\n"), 0o600))
	got, err = ReadText(newFlags(t, "--file", path), []string{"ignored"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "from a file", got)

	bin := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(bin, []byte{0x00, 0x01}, 0o600))
	_, err = ReadText(newFlags(t, "--file", bin), nil, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
