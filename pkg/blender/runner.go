package blender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/bytedance/sonic"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/rs/zerolog"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/camera"
	"github.com/df07/go-bpwf/pkg/logger"
	"github.com/df07/go-bpwf/pkg/scene"
)

var (
	// ErrHostFailed wraps a non-zero exit of the host executable
	ErrHostFailed = errors.New("host failed")
	// ErrNotRendered is returned when the run left no usable image
	ErrNotRendered = errors.New("no image rendered")
	// ErrSharedOutput is returned when two runs of a batch would write the
	// same files
	ErrSharedOutput = errors.New("runs share an output path")
)

// DefaultExecutable is looked up on PATH when a runner names none
const DefaultExecutable = "blender"

const stderrTail = 4096

// Runner starts the host executable on generated scripts
type Runner struct {
	Executable string
	// Args are passed before the script arguments
	Args []string
	// Dir is the working directory of the host process; empty means the
	// scene's output directory
	Dir string
	// Stdout and Stderr receive the host's output when set
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a runner for the given executable
func NewRunner(executable string, args ...string) *Runner {
	if executable == "" {
		executable = DefaultExecutable
	}
	return &Runner{Executable: executable, Args: args}
}

func (r *Runner) executable() string {
	if r.Executable == "" {
		return DefaultExecutable
	}
	return r.Executable
}

// RunOptions selects what a run produces
type RunOptions struct {
	// Peek starts an interactive host for a viewport render
	Peek bool
	// Output is where the rendered image is copied; empty leaves it in
	// the scene directory
	Output string
	Render scene.RenderOptions
}

// Result describes a finished run
type Result struct {
	Filename   string             `json:"filename"`
	ScriptPath string             `json:"script"`
	BlendPath  string             `json:"blend"`
	Image      string             `json:"image,omitempty"`
	Projection camera.Calibration `json:"projection"`
	Duration   time.Duration      `json:"duration"`
}

// Version asks the host for its release
func (r *Runner) Version(ctx context.Context) (*semver.Version, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, r.executable(), "--version")
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s --version: %v", ErrHostFailed, r.executable(), err)
	}
	return ParseVersion(out.String())
}

// Dialect returns the API dialect of the installed host
func (r *Runner) Dialect(ctx context.Context) (api.Dialect, error) {
	v, err := r.Version(ctx)
	if err != nil {
		return api.Dialect{}, err
	}
	return api.ForVersion(v), nil
}

// Command returns the argument list used to run a script
func (r *Runner) Command(scriptPath string, peek bool) []string {
	args := append([]string{}, r.Args...)
	if !peek {
		args = append(args, "--background")
	}
	return append(args, "--python", scriptPath)
}

// Run writes the scene's script, runs it and waits for the result
func (r *Runner) Run(ctx context.Context, s *scene.Scene, opts RunOptions) (*Result, error) {
	job, err := r.Start(ctx, s, opts)
	if err != nil {
		return nil, err
	}
	return job.Wait()
}

// Start writes the scene's script and starts the host without waiting.
// The returned job must be waited on.
func (r *Runner) Start(ctx context.Context, s *scene.Scene, opts RunOptions) (*Job, error) {
	var (
		text string
		err  error
	)
	if opts.Peek {
		text, err = s.Peek(opts.Render)
	} else {
		text, err = s.Render(opts.Render)
	}
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.Path(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(s.ScriptPath(), []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write script: %w", err)
	}
	// Stale outputs would hide a failed render
	for _, p := range []string{s.ImagePath(), s.MatrixPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale output: %w", err)
		}
	}

	args := r.Command(s.ScriptPath(), opts.Peek)
	cmd := exec.CommandContext(ctx, r.executable(), args...)
	cmd.Dir = r.Dir
	if cmd.Dir == "" {
		cmd.Dir = s.Path()
	}
	tail := newTailBuffer(stderrTail)
	cmd.Stdout = r.Stdout
	cmd.Stderr = tail
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(tail, r.Stderr)
	}

	log := logger.With("blender").With().Str("filename", s.Filename()).Bool("peek", opts.Peek).Logger()
	log.Info().Str("executable", r.executable()).Strs("args", args).Msg("starting host")
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHostFailed, err)
	}

	return &Job{
		cmd:     cmd,
		tail:    tail,
		scene:   s,
		opts:    opts.Render.Resolved(s.IsDraft() || opts.Peek),
		output:  opts.Output,
		started: time.Now(),
		log:     log,
	}, nil
}

// Job is a started host process
type Job struct {
	cmd     *exec.Cmd
	tail    *tailBuffer
	scene   *scene.Scene
	opts    scene.RenderOptions
	output  string
	started time.Time
	log     zerolog.Logger
}

// Wait blocks until the host exits, then checks and collects its outputs
func (j *Job) Wait() (*Result, error) {
	err := j.cmd.Wait()
	elapsed := time.Since(j.started)
	if err != nil {
		j.log.Error().Err(err).Dur("elapsed", elapsed).Msg("host failed")
		return nil, fmt.Errorf("%w: %v\n%s", ErrHostFailed, err, strings.TrimSpace(j.tail.String()))
	}

	s := j.scene
	res := &Result{
		Filename:   s.Filename(),
		ScriptPath: s.ScriptPath(),
		BlendPath:  s.BlendPath(),
		Duration:   elapsed,
	}

	data, err := os.ReadFile(s.MatrixPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read camera matrices: %w", err)
	}
	if err := sonic.Unmarshal(data, &res.Projection); err != nil {
		return nil, fmt.Errorf("failed to decode camera matrices: %w", err)
	}

	if !j.opts.SkipRender {
		if err := checkPNG(s.ImagePath()); err != nil {
			return nil, err
		}
		res.Image = s.ImagePath()
		if j.output != "" {
			if err := copyFile(s.ImagePath(), j.output); err != nil {
				return nil, err
			}
			res.Image = j.output
		}
	}

	j.log.Info().Dur("elapsed", elapsed).Str("image", res.Image).Msg("host finished")
	return res, nil
}

func checkPNG(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotRendered, err)
	}
	defer file.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrNotRendered, err)
	}
	if !filetype.IsType(head[:n], matchers.TypePng) {
		return fmt.Errorf("%w: %s is not a PNG", ErrNotRendered, path)
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create output image: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy image: %w", err)
	}
	return out.Close()
}
