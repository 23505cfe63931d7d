package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/df07/go-bpwf/pkg/blender"
	"github.com/df07/go-bpwf/pkg/logger"
)

const watchDebounce = 250 * time.Millisecond

func (a *app) watchCmd() *cobra.Command {
	var sf sceneFlags
	cmd := &cobra.Command{
		Use:   "watch <scene.yaml>",
		Short: "Re-render a scene file every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if !isSceneFile(path) {
				return fmt.Errorf("%s is not a scene file", args[0])
			}
			runner, err := a.runner(cmd)
			if err != nil {
				return err
			}
			return a.watch(cmd, path, sf, runner)
		},
	}
	sf.register(cmd, true, true)
	return cmd
}

// watch renders path once, then again after each burst of writes. Editors
// often replace files on save, so the parent directory is watched.
func (a *app) watch(cmd *cobra.Command, path string, sf sceneFlags, runner *blender.Runner) error {
	ctx := cmd.Context()
	log := logger.With("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	render := func() {
		if err := a.renderOnce(ctx, cmd, path, sf, runner); err != nil {
			log.Error().Err(err).Str("file", path).Msg("render failed")
		}
	}
	render()
	log.Info().Str("file", path).Msg("watching for changes")

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			log.Debug().Str("op", event.Op.String()).Msg("scene file changed")
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			render()
		}
	}
}

func (a *app) renderOnce(ctx context.Context, cmd *cobra.Command, path string, sf sceneFlags, runner *blender.Runner) error {
	s, ro, err := a.loadScene(ctx, path, sf)
	if err != nil {
		return err
	}
	res, err := runner.Run(ctx, s, blender.RunOptions{Render: ro})
	if err != nil {
		return err
	}
	printResult(cmd, res)
	return nil
}
