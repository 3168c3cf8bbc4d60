package cli_cmds

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"lunchsync/internal"
	"lunchsync/internal/cli"
)

func testParams() *cli.CmdParams {
	return &cli.CmdParams{
		Config: &internal.Config{},
		Logger: zerolog.Nop(),
		Use:    "lunchsync",
		Alias:  "lsync",
		Short:  "test",
		Long:   "test",
	}
}

func TestGeneratePalette(t *testing.T) {
	params := testParams()
	palette := GeneratePalette(params)

	want := []string{"sync", "assets", "version"}
	if len(palette) != len(want) {
		t.Fatalf("Expected %d commands, got %d", len(want), len(palette))
	}
	for i, use := range want {
		if palette[i].Use != use {
			t.Errorf("Expected command %q at %d, got %q", use, i, palette[i].Use)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	params := testParams()
	params.Palette = GeneratePalette(params)
	root := cli.NewRoot(params)

	output, err := cli.ExecuteCommand(root, "version")
	if err != nil {
		t.Fatalf("version command returned unexpected error: %v", err)
	}
	if !strings.Contains(output, "Version:") {
		t.Errorf("Expected version output, got %q", output)
	}
}

func TestSyncCommandRequiresToken(t *testing.T) {
	t.Setenv("LUNCHMONEY_ACCESS_TOKEN", "")

	params := testParams()
	params.Palette = GeneratePalette(params)
	root := cli.NewRoot(params)

	_, err := cli.ExecuteCommand(root, "sync", "--dry-run")
	if err == nil {
		t.Error("Expected sync to fail without an access token")
	}
}
