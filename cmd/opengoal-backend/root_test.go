package main

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
)

func TestUsageArgsWrapsValidationErrors(t *testing.T) {
	wrapped := usageArgs(cobra.ExactArgs(1))
	cmd := &cobra.Command{Use: "test"}

	if err := wrapped(cmd, []string{"jak1"}); err != nil {
		t.Fatalf("usageArgs returned unexpected error for valid args: %v", err)
	}

	err := wrapped(cmd, nil)
	if err == nil {
		t.Fatal("usageArgs should return an error for missing args")
	}
	if !isUsageError(err) {
		t.Fatalf("usageArgs error should be marked as usage error: %v", err)
	}
}

func TestIsUsageError(t *testing.T) {
	tests := []struct {
		desc string
		err  error
		want bool
	}{
		{"wrapped", wrapUsageError(errors.New("bad args")), true},
		{"unknown command", errors.New(`unknown command "foo" for "opengoal-backend"`), true},
		{"runtime failure", errors.New("install in progress"), false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := isUsageError(tt.err); got != tt.want {
				t.Errorf("isUsageError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "status", "install", "update", "remove", "shortcut"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
}
