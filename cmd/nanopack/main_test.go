package main

import (
	"os"
	"testing"
)

func TestIsCLIMode(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"nanopack"}, false},
		{[]string{"nanopack", "list"}, true},
		{[]string{"nanopack", "save"}, true},
		{[]string{"nanopack", "serve"}, true},
		{[]string{"nanopack", "--help"}, true},
		{[]string{"nanopack", "-v"}, true},
		{[]string{"nanopack", "bogus"}, false},
	}
	for _, tt := range tests {
		os.Args = tt.args
		if got := isCLIMode(); got != tt.want {
			t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestIsHelpOrVersion(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"nanopack"}, false},
		{[]string{"nanopack", "help"}, true},
		{[]string{"nanopack", "--version"}, true},
		{[]string{"nanopack", "list"}, false},
	}
	for _, tt := range tests {
		os.Args = tt.args
		if got := isHelpOrVersion(); got != tt.want {
			t.Errorf("isHelpOrVersion(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"1", "2"}, {"3"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if out == "" {
		t.Fatal("empty table output")
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("expected empty output for no headers")
	}
}
