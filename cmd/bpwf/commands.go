package main

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/df07/go-bpwf/pkg/blender"
	"github.com/df07/go-bpwf/pkg/camera"
	"github.com/df07/go-bpwf/pkg/core"
	"github.com/df07/go-bpwf/pkg/logger"
	"github.com/df07/go-bpwf/pkg/scene"
)

func (a *app) scriptCmd() *cobra.Command {
	var (
		sf     sceneFlags
		output string
		peek   bool
	)
	cmd := &cobra.Command{
		Use:   "script <scene>",
		Short: "Print the script for a scene without running the host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ro, err := a.loadScene(cmd.Context(), args[0], sf)
			if err != nil {
				return err
			}
			var text string
			if peek {
				text, err = s.Peek(ro)
			} else {
				text, err = s.Render(ro)
			}
			if err != nil {
				return err
			}
			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			return os.WriteFile(output, []byte(text), 0o644)
		},
	}
	sf.register(cmd, false, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the script here instead of stdout")
	cmd.Flags().BoolVar(&peek, "peek", false, "emit the viewport preview variant")
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	var (
		sf         sceneFlags
		output     string
		skipRender bool
	)
	cmd := &cobra.Command{
		Use:   "render <scene>...",
		Short: "Render one or more scenes with the host",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return fmt.Errorf("--output takes a single scene")
			}
			runner, err := a.runner(cmd)
			if err != nil {
				return err
			}

			tasks := make([]blender.Task, 0, len(args))
			for _, ref := range args {
				s, ro, err := a.loadScene(cmd.Context(), ref, sf)
				if err != nil {
					return err
				}
				ro.SkipRender = ro.SkipRender || skipRender
				tasks = append(tasks, blender.Task{
					Scene:   s,
					Options: blender.RunOptions{Output: output, Render: ro},
				})
			}

			results, stats, err := blender.RenderAll(cmd.Context(), runner, tasks, a.cfg.Concurrency)
			for _, res := range results {
				if res != nil {
					printResult(cmd, res)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d scene(s) in %v\n", stats.Completed, stats.Elapsed)
			return nil
		},
	}
	sf.register(cmd, true, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "copy the rendered image here")
	cmd.Flags().BoolVar(&skipRender, "skip-render", false, "save the scene file and matrices without rendering")
	return cmd
}

func (a *app) peekCmd() *cobra.Command {
	var (
		sf     sceneFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "peek <scene>",
		Short: "Open the host on a scene and take a quick viewport render",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := a.runner(cmd)
			if err != nil {
				return err
			}
			s, ro, err := a.loadScene(cmd.Context(), args[0], sf)
			if err != nil {
				return err
			}
			res, err := runner.Run(cmd.Context(), s, blender.RunOptions{Peek: true, Output: output, Render: ro})
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}
	sf.register(cmd, true, false)
	cmd.Flags().StringVarP(&output, "output", "o", "", "copy the preview image here")
	return cmd
}

func (a *app) runner(cmd *cobra.Command) (*blender.Runner, error) {
	r, err := a.cfg.Runner()
	if err != nil {
		return nil, err
	}
	r.Stderr = cmd.ErrOrStderr()
	return r, nil
}

func printResult(cmd *cobra.Command, res *blender.Result) {
	out := cmd.OutOrStdout()
	if res.Image != "" {
		fmt.Fprintf(out, "%s: image %s\n", res.Filename, res.Image)
	}
	fmt.Fprintf(out, "%s: scene %s (%v)\n", res.Filename, res.BlendPath, res.Duration)
}

func (a *app) listCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			response, err := scene.ListAllScenes(a.cfg.ScenesDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := sonic.ConfigStd.MarshalIndent(response, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			for _, group := range response.Groups {
				fmt.Fprintf(out, "%s:\n", group.Name)
				for _, s := range group.Scenes {
					if s.Description != "" {
						fmt.Fprintf(out, "  %-24s %s\n", s.ID, s.Description)
					} else {
						fmt.Fprintf(out, "  %s\n", s.ID)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	return cmd
}

func (a *app) cameraCmd() *cobra.Command {
	var (
		sf        sceneFlags
		check     string
		tolerance float64
		gl        bool
	)
	cmd := &cobra.Command{
		Use:     "camera [flags] <matrices.json> [x y z]",
		Short:   "Show the camera matrices of a render and project a world point",
		Example: "  bpwf camera out/primitives_camera.json -1.5 0 -2",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 4 {
				return fmt.Errorf("want a matrix file and optionally a point, got %d args", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var cal camera.Calibration
			if err := sonic.Unmarshal(data, &cal); err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			loc := cal.Location()
			fmt.Fprintf(out, "location: (%g, %g, %g)\n", loc.X, loc.Y, loc.Z)
			fmt.Fprintln(out, "K:")
			for _, row := range cal.K {
				fmt.Fprintf(out, "  %12.4f %12.4f %12.4f\n", row[0], row[1], row[2])
			}
			fmt.Fprintln(out, "P:")
			for _, row := range cal.P {
				fmt.Fprintf(out, "  %12.4f %12.4f %12.4f %12.4f\n", row[0], row[1], row[2], row[3])
			}
			if gl {
				if err := printGL(cmd, cal); err != nil {
					return err
				}
			}
			if check != "" {
				if err := a.checkCalibration(cmd, check, sf, cal, tolerance); err != nil {
					return err
				}
			}
			if len(args) == 1 {
				return nil
			}

			var xyz [3]float64
			for i, s := range args[1:] {
				if xyz[i], err = strconv.ParseFloat(s, 64); err != nil {
					return fmt.Errorf("invalid coordinate %q: %w", s, err)
				}
			}
			u, v, ok := cal.Project(core.NewVec3(xyz[0], xyz[1], xyz[2]))
			if !ok {
				return fmt.Errorf("point (%g, %g, %g) is behind the camera", xyz[0], xyz[1], xyz[2])
			}
			fmt.Fprintf(out, "pixel: (%.2f, %.2f)\n", u, v)
			return nil
		},
	}
	sf.register(cmd, false, false)
	cmd.Flags().StringVar(&check, "check", "", "compare the matrices with those predicted for this scene")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-4, "relative tolerance of --check")
	cmd.Flags().BoolVar(&gl, "gl", false, "print the OpenGL projection of a default camera at the render's resolution")
	// Coordinates such as -2 follow the matrix file and are not flags
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// checkCalibration reports whether a dumped calibration matches the one the
// scene's render options predict
func (a *app) checkCalibration(cmd *cobra.Command, ref string, sf sceneFlags, cal camera.Calibration, tol float64) error {
	s, ro, err := a.loadScene(cmd.Context(), ref, sf)
	if err != nil {
		return err
	}
	want, err := s.ExpectedCalibration(ro)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "predicted P (%s):\n", ref)
	for _, row := range want.P {
		fmt.Fprintf(out, "  %12.4f %12.4f %12.4f %12.4f\n", row[0], row[1], row[2], row[3])
	}
	if !want.Matches(cal, tol) {
		fmt.Fprintln(out, "prediction: mismatch")
		return fmt.Errorf("camera matrices differ from the %s prediction", ref)
	}
	fmt.Fprintln(out, "prediction: match")
	return nil
}

// printGL prints the OpenGL projection of the render camera with the clip
// range the script sets. The resolution is read back from the principal
// point of K.
func printGL(cmd *cobra.Command, cal camera.Calibration) error {
	p := camera.DefaultParams()
	p.ClipStart, p.ClipEnd = camera.MinClipStart, 10000
	r := camera.NewRender(int(math.Round(2*cal.K[0][2])), int(math.Round(2*cal.K[1][2])))
	m, err := camera.Perspective(p, r)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "GL projection (%dx%d, fov %.2f deg):\n", r.ResolutionX, r.ResolutionY, camera.FieldOfView(p)*180/math.Pi)
	for _, row := range m {
		fmt.Fprintf(out, "  %12.6f %12.6f %12.6f %12.6f\n", row[0], row[1], row[2], row[3])
	}
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool version and the installed host version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bpwf %s\n", version)
			runner, err := a.cfg.Runner()
			if err != nil {
				return err
			}
			v, err := runner.Version(cmd.Context())
			if err != nil {
				logger.Warn().Err(err).Msg("host version unavailable")
				fmt.Fprintf(out, "host: unavailable (%s)\n", runner.Executable)
				return nil
			}
			fmt.Fprintf(out, "host: %s (%s)\n", v, runner.Executable)
			return nil
		},
	}
}
