package backend

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/mcuadros/go-version"
)

// GameFlagSince is the first release whose extractor accepts --game.
const GameFlagSince = "0.0.44"

// Runner executes a program in dir and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.Bytes(), err
}

func normalizeTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "v")
}

// SupportsGameFlag reports whether the extractor shipped with the release
// tagged tag understands the --game argument.
func SupportsGameFlag(tag string) bool {
	v := normalizeTag(tag)
	if v == "" {
		return false
	}
	return version.CompareSimple(v, GameFlagSince) >= 0
}

// ExtractorArgs builds the argument list for ./extractor.
func ExtractorArgs(isoPath, game, tag string) []string {
	args := []string{isoPath, "--extract", "--validate", "--decompile", "--compile"}
	if SupportsGameFlag(tag) {
		args = append(args, "--game", game)
	}
	return args
}
