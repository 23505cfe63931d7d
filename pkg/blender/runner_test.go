package blender

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/scene"
)

// fakeHost stands in for the host: it answers --version, and for --python
// it copies a fixture PNG to the script's image path and writes a matrix
// sidecar. FAKE_MODE selects failure behaviours.
const fakeHost = `#!/bin/sh
echo "$@" >> "$FAKE_ARGS"
if [ "$1" = "--version" ]; then
	echo "Blender 3.6.5"
	echo "	build date: 2023-10-16"
	exit 0
fi
SCRIPT=""
while [ $# -gt 0 ]; do
	if [ "$1" = "--python" ]; then
		SCRIPT="$2"
	fi
	shift
done
if [ "$FAKE_MODE" = "fail" ]; then
	echo "Error: Python: Traceback (most recent call last)" >&2
	exit 3
fi
IMG=$(sed -n 's/^scene.render.filepath = "\(.*\)"$/\1/p' "$SCRIPT")
MAT=$(sed -n 's/^bpwf_dump_matrices(camera, "\(.*\)")$/\1/p' "$SCRIPT")
cat > "$MAT" <<JSON
{"P": [[1, 0, 0, 0], [0, 1, 0, 0], [0, 0, 1, 0]],
 "K": [[1000, 0, 960], [0, 1000, 540], [0, 0, 1]],
 "RT": [[1, 0, 0, 0], [0, 1, 0, 0], [0, 0, 1, 0]],
 "world": [[1, 0, 0, 3], [0, 1, 0, 4], [0, 0, 1, 5], [0, 0, 0, 1]]}
JSON
case "$FAKE_MODE" in
	noimage) ;;
	text) echo "not a png" > "$IMG" ;;
	*) cp "$FAKE_PNG" "$IMG" ;;
esac
`

type fakeEnv struct {
	runner *Runner
	dir    string
	args   string
}

func newFakeHost(t *testing.T, mode string) fakeEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake host is a shell script")
	}
	dir := t.TempDir()

	exe := filepath.Join(dir, "blender")
	require.NoError(t, os.WriteFile(exe, []byte(fakeHost), 0o755))

	fixture := filepath.Join(dir, "fixture.png")
	f, err := os.Create(fixture)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	require.NoError(t, f.Close())

	args := filepath.Join(dir, "args.txt")
	t.Setenv("FAKE_ARGS", args)
	t.Setenv("FAKE_PNG", fixture)
	t.Setenv("FAKE_MODE", mode)

	return fakeEnv{runner: NewRunner(exe, "--factory-startup"), dir: dir, args: args}
}

func (f fakeEnv) calls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.args)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func newSphereScene(t *testing.T, filename string) *scene.Scene {
	t.Helper()
	s := scene.New(scene.WithPath(t.TempDir()), scene.WithFilename(filename))
	require.NoError(t, s.Sphere("ball", core.Vec3{}, 1, scene.Style{Color: "#FF0000"}))
	return s
}

func TestParseVersion(t *testing.T) {
	testCases := []struct {
		output   string
		expected string
		wantErr  bool
	}{
		{output: "Blender 4.2.1 LTS\n\tbuild date: 2024-08-19", expected: "4.2.1"},
		{output: "Blender 2.79 (sub 7)\n", expected: "2.79.0"},
		{output: "Read prefs: /home/me\nBlender 3.6.5\n", expected: "3.6.5"},
		{output: "command not found", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.output, func(t *testing.T) {
			v, err := ParseVersion(tc.output)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrNoVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v.String())
		})
	}
}

func TestRunner_Version(t *testing.T) {
	f := newFakeHost(t, "")

	v, err := f.runner.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.6.5", v.String())

	d, err := f.runner.Dialect(context.Background())
	require.NoError(t, err)
	assert.False(t, d.Legacy())
	assert.Equal(t, "Specular", d.SpecularInput)
}

func TestRunner_Command(t *testing.T) {
	r := NewRunner("", "--factory-startup")
	assert.Equal(t, DefaultExecutable, r.Executable)
	assert.Equal(t, []string{"--factory-startup", "--background", "--python", "a.py"}, r.Command("a.py", false))
	assert.Equal(t, []string{"--factory-startup", "--python", "a.py"}, r.Command("a.py", true))
}

func TestRunner_Run(t *testing.T) {
	f := newFakeHost(t, "")
	s := newSphereScene(t, "ball")
	output := filepath.Join(f.dir, "out", "final.png")

	res, err := f.runner.Run(context.Background(), s, RunOptions{
		Output: output,
		Render: scene.DefaultRenderOptions(),
	})
	require.NoError(t, err)

	assert.Equal(t, output, res.Image)
	assert.FileExists(t, output)
	assert.FileExists(t, s.ImagePath())
	assert.Equal(t, 1000.0, res.Projection.K[0][0])
	assert.Equal(t, 540.0, res.Projection.K[1][2])
	assert.Equal(t, core.NewVec3(3, 4, 5), res.Projection.Location())

	script, err := os.ReadFile(s.ScriptPath())
	require.NoError(t, err)
	assert.Contains(t, string(script), "bpy.ops.render.render(write_still=True)")

	calls := f.calls(t)
	require.Len(t, calls, 1)
	assert.Equal(t, "--factory-startup --background --python "+s.ScriptPath(), calls[0])
}

func TestRunner_Peek(t *testing.T) {
	f := newFakeHost(t, "")
	s := newSphereScene(t, "peek")

	res, err := f.runner.Run(context.Background(), s, RunOptions{Peek: true, Render: scene.DefaultRenderOptions()})
	require.NoError(t, err)
	assert.Equal(t, s.ImagePath(), res.Image)

	calls := f.calls(t)
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0], "--background")

	script, err := os.ReadFile(s.ScriptPath())
	require.NoError(t, err)
	assert.Contains(t, string(script), "bpy.ops.render.opengl(write_still=True)")
}

func TestRunner_SkipRender(t *testing.T) {
	f := newFakeHost(t, "noimage")
	s := newSphereScene(t, "skip")

	opts := scene.DefaultRenderOptions()
	opts.SkipRender = true
	res, err := f.runner.Run(context.Background(), s, RunOptions{Render: opts})
	require.NoError(t, err)
	assert.Empty(t, res.Image)
	assert.Equal(t, s.BlendPath(), res.BlendPath)
}

func TestRunner_Failures(t *testing.T) {
	testCases := []struct {
		mode    string
		target  error
		message string
	}{
		{mode: "fail", target: ErrHostFailed, message: "Traceback"},
		{mode: "noimage", target: ErrNotRendered},
		{mode: "text", target: ErrNotRendered, message: "is not a PNG"},
	}
	for _, tc := range testCases {
		t.Run(tc.mode, func(t *testing.T) {
			f := newFakeHost(t, tc.mode)
			s := newSphereScene(t, "broken")

			_, err := f.runner.Run(context.Background(), s, RunOptions{Render: scene.DefaultRenderOptions()})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestRunner_InvalidOptions(t *testing.T) {
	f := newFakeHost(t, "")
	s := newSphereScene(t, "invalid")

	opts := scene.DefaultRenderOptions()
	opts.Samples = 0
	_, err := f.runner.Run(context.Background(), s, RunOptions{Render: opts})
	assert.Error(t, err)
	assert.NoFileExists(t, s.ScriptPath())
}

func TestRunner_StartWait(t *testing.T) {
	f := newFakeHost(t, "")
	s := newSphereScene(t, "async")

	job, err := f.runner.Start(context.Background(), s, RunOptions{Render: scene.DefaultRenderOptions()})
	require.NoError(t, err)
	res, err := job.Wait()
	require.NoError(t, err)
	assert.Equal(t, "async", res.Filename)
}

func TestRunner_MissingExecutable(t *testing.T) {
	r := NewRunner(filepath.Join(t.TempDir(), "no-such-blender"))
	_, err := r.Version(context.Background())
	assert.ErrorIs(t, err, ErrHostFailed)

	_, err = r.Run(context.Background(), newSphereScene(t, "x"), RunOptions{Render: scene.DefaultRenderOptions()})
	assert.ErrorIs(t, err, ErrHostFailed)
}

func TestTailBuffer(t *testing.T) {
	tb := newTailBuffer(8)
	_, err := tb.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, "23456789", tb.String())

	_, err = tb.Write([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, "456789ab", tb.String())
}
