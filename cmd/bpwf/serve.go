package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/df07/go-bpwf/pkg/scene"
	"github.com/df07/go-bpwf/web/server"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		sf   sceneFlags
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scene scripts and renders over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := a.cfg.Runner()
			if err != nil {
				return err
			}
			srv := server.NewServer(server.Config{
				Addr:      fmt.Sprintf(":%d", port),
				Runner:    runner,
				ScenesDir: a.cfg.ScenesDir,
				Load: func(ctx context.Context, ref string, draft bool) (*scene.Scene, scene.RenderOptions, error) {
					// Only built-in and "file:" scenes; never arbitrary paths
					if isSceneFile(ref) {
						return nil, scene.RenderOptions{}, fmt.Errorf("scene %q must be a built-in or file: id", ref)
					}
					f := sf
					f.draft = f.draft || draft
					return a.loadScene(ctx, ref, f)
				},
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Visit http://localhost:%d/api/scenes to list scenes\n", port)
			return srv.Start(cmd.Context())
		},
	}
	sf.register(cmd, true, false)
	cmd.Flags().IntVar(&port, "port", 8080, "port to serve on")
	return cmd
}
