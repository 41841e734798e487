package bindings

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequest_Args(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{
			name: "all crates",
			req:  Request{Profile: ProfileRelease, Submodules: SubmodulesSkip},
			want: []string{"--crates", "all", "--profile", "release", "--submodules", "skip"},
		},
		{
			name: "subset dry run",
			req:  Request{Crates: []string{"imgui-sys", "plot-sys"}, Profile: ProfileDebug, Submodules: SubmodulesAuto, DryRun: true},
			want: []string{"--crates", "imgui-sys,plot-sys", "--profile", "debug", "--submodules", "auto", "--dry-run"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.req.Args())
		})
	}
}

func TestRequest_Validate(t *testing.T) {
	require.NoError(t, Request{Profile: "release", Submodules: "update"}.Validate())
	require.ErrorContains(t, Request{Profile: "fast", Submodules: "skip"}.Validate(), `invalid profile "fast"`)
	require.ErrorContains(t, Request{Profile: "debug", Submodules: "never"}.Validate(), `invalid submodules mode "never"`)
}

func fakeGenerator(t *testing.T, body string) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\necho \"$@\" > " + filepath.Join(dir, "args.log") + "\n" + body + "\n"
	bin := filepath.Join(dir, "gen.sh")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, dir
}

func TestCommandRunner_Run(t *testing.T) {
	bin, dir := fakeGenerator(t, "echo regenerated")
	var out bytes.Buffer
	r := NewCommandRunner([]string{bin, "--verbose"}, dir, &out)

	err := r.Run(context.Background(), Request{Crates: []string{"imgui-sys"}, Profile: "release", Submodules: "skip"})
	require.NoError(t, err)

	args, err := os.ReadFile(filepath.Join(dir, "args.log"))
	require.NoError(t, err)
	require.Equal(t, "--verbose --crates imgui-sys --profile release --submodules skip\n", string(args))
	require.Contains(t, out.String(), "regenerated")
}

func TestCommandRunner_Failure(t *testing.T) {
	bin, dir := fakeGenerator(t, "echo 'bindgen: header not found' >&2\nexit 3")
	r := NewCommandRunner([]string{bin}, dir, nil)

	err := r.Run(context.Background(), Request{Profile: "debug", Submodules: "auto"})
	var cerr *CommandError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, 3, cerr.ExitCode)
	require.Contains(t, err.Error(), "(exit 3): bindgen: header not found")
}

func TestCommandRunner_RejectsInvalidRequest(t *testing.T) {
	r := NewCommandRunner([]string{"true"}, t.TempDir(), nil)
	require.Error(t, r.Run(context.Background(), Request{Profile: "fast", Submodules: "skip"}))

	empty := NewCommandRunner(nil, t.TempDir(), nil)
	require.ErrorContains(t, empty.Run(context.Background(), Request{Profile: "debug", Submodules: "skip"}), "no binding generator command")
}
