package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/plugreg/internal/cli"
)

func TestRun_List(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "component", "META-INF", "plugreg.hcl")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`service "printer" { kind = "print" }`), 0o600))

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(context.Background(), out, errOut, []string{"list", "--path", root})

	require.NoError(t, err)
	require.Contains(t, out.String(), "printer")
	require.Contains(t, out.String(), "*print.Printer")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"--help"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
	require.Contains(t, out.String(), "serve")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
