package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/loaders"
	"github.com/df07/go-bpwf/pkg/scene"
)

// sceneFlags are shared by every command that builds a scene
type sceneFlags struct {
	dialect  string
	filename string
	draft    bool
	probe    bool
}

func (f *sceneFlags) register(cmd *cobra.Command, probeDefault, draftDefault bool) {
	cmd.Flags().StringVar(&f.dialect, "dialect", "", "host version to write for, e.g. 2.79 or 4.2")
	cmd.Flags().StringVarP(&f.filename, "filename", "f", "", "base name of the output files")
	cmd.Flags().BoolVar(&f.draft, "draft", draftDefault, "render a small, low sample preview")
	cmd.Flags().BoolVar(&f.probe, "probe", probeDefault, "ask the host for its version when no dialect is set")
}

// dialect resolves the API dialect: flag, then pinned config, then the
// installed host when probing. ok is false when none applies.
func (a *app) dialect(ctx context.Context, f sceneFlags) (d api.Dialect, ok bool, err error) {
	if f.dialect != "" {
		d, err = api.Parse(f.dialect)
		return d, err == nil, err
	}
	if d, pinned, err := a.cfg.PinnedDialect(); err != nil || pinned {
		return d, pinned, err
	}
	if !f.probe {
		return api.Dialect{}, false, nil
	}
	runner, err := a.cfg.Runner()
	if err != nil {
		return api.Dialect{}, false, err
	}
	d, err = runner.Dialect(ctx)
	if err != nil {
		return api.Dialect{}, false, fmt.Errorf("probing host version: %w", err)
	}
	return d, true, nil
}

func isSceneFile(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// findSceneFile maps a "file:<name>" id to its path in the scenes directory
func (a *app) findSceneFile(id string) (string, error) {
	files, err := scene.ListSceneFiles(a.cfg.ScenesDir)
	if err != nil {
		return "", err
	}
	for _, info := range files {
		if info.ID == id {
			return info.FilePath, nil
		}
	}
	return "", fmt.Errorf("no scene file %q in %s", id, a.cfg.ScenesDir)
}

// loadScene builds a built-in scene, a "file:" scene from the scenes
// directory, or a scene document given by path
func (a *app) loadScene(ctx context.Context, ref string, f sceneFlags) (*scene.Scene, scene.RenderOptions, error) {
	d, ok, err := a.dialect(ctx, f)
	if err != nil {
		return nil, scene.RenderOptions{}, err
	}
	opts := []scene.Option{scene.WithPath(a.cfg.Render.OutputDir)}
	if ok {
		opts = append(opts, scene.WithDialect(d))
	}
	if f.filename != "" {
		opts = append(opts, scene.WithFilename(f.filename))
	}

	if strings.HasPrefix(ref, "file:") {
		path, err := a.findSceneFile(ref)
		if err != nil {
			return nil, scene.RenderOptions{}, err
		}
		ref = path
	}

	var (
		s  *scene.Scene
		ro scene.RenderOptions
	)
	if isSceneFile(ref) {
		sf, err := loaders.LoadSceneFile(ref)
		if err != nil {
			return nil, scene.RenderOptions{}, err
		}
		s, ro, err = sf.BuildFrom(a.cfg.RenderOptions(), opts...)
		if err != nil {
			return nil, scene.RenderOptions{}, fmt.Errorf("%s: %w", ref, err)
		}
	} else {
		build, found := scene.Builtin(ref)
		if !found {
			return nil, scene.RenderOptions{}, fmt.Errorf("unknown scene %q (see bpwf list)", ref)
		}
		s, ro, err = build(append([]scene.Option{scene.WithFilename(ref)}, opts...)...)
		if err != nil {
			return nil, scene.RenderOptions{}, fmt.Errorf("%s: %w", ref, err)
		}
	}

	if f.draft || a.cfg.Render.Draft {
		s.Draft(true)
	}
	return s, ro, nil
}
