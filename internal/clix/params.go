package clix

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"suggestbox/internal/models"
	"suggestbox/internal/util"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// Page returns the [offset, offset+limit) window of n items as slice bounds.
func (p PaginationParams) Page(n int) (start, end int) {
	start = min(p.Offset, n)
	end = min(start+p.Limit, n)
	return start, end
}

// ParseCategory reads the --category flag, matching category names without
// regard to case. An empty flag yields "".
func ParseCategory(flags *pflag.FlagSet) (models.Category, error) {
	raw, _ := flags.GetString("category")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	for _, c := range models.Categories() {
		if strings.EqualFold(string(c), raw) {
			return c, nil
		}
	}
	names := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		names = append(names, string(c))
	}
	return "", fmt.Errorf("%w: unknown category %q (expected one of %s)", models.ErrInvalidInput, raw, strings.Join(names, ", "))
}

// ReadText resolves the text a command operates on: the --file flag when
// set, otherwise the positional args joined by spaces, otherwise all of in.
func ReadText(flags *pflag.FlagSet, args []string, in io.Reader) (string, error) {
	if path, _ := flags.GetString("file"); path != "" {
		binary, err := util.IsLikelyBinary(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		if binary {
			return "", fmt.Errorf("%w: %s looks like a binary file", models.ErrInvalidInput, path)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return util.CleanText(raw, path)
	}

	if len(args) > 0 {
		return util.CleanText([]byte(strings.Join(args, " ")), "arguments")
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return util.CleanText(raw, "stdin")
}
