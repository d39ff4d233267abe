package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rubik-viewer/internal/asset"
	"rubik-viewer/internal/config"
	"rubik-viewer/internal/debug"
	"rubik-viewer/internal/env"
	"rubik-viewer/internal/graphics"
	"rubik-viewer/internal/logger"
	"rubik-viewer/internal/scene"
	"rubik-viewer/internal/session"
)

var (
	presetName string
	configPath string
	modelPath  string
	logPath    string
)

func main() {
	if _, err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "env:", err)
	}

	cmd := &cobra.Command{
		Use:   "viewer",
		Short: "Rubik's cube model viewer",
		Long: `viewer - Rubik's cube model viewer

Loads a glTF cube model, plays a short scramble intro and lets you orbit the result.

Controls:
  Left drag   - Orbit
  Right drag  - Pan
  Scroll      - Zoom
  Esc         - Quit`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	cmd.Flags().StringVar(&presetName, "preset", "", "Preset name (see 'viewer presets'); default from $CUBEVIEW_PRESET or preferences")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file applied on top of the preset")
	cmd.Flags().StringVar(&modelPath, "model", "", "Model path or http(s) URL; default from $CUBEVIEW_MODEL or the preset")
	cmd.Flags().StringVar(&logPath, "log", logger.DefaultPath, "Log file (empty keeps the log in memory)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPresets(cmd.OutOrStdout())
		},
	}
	inspectCmd := &cobra.Command{
		Use:   "inspect <model.glb|url>",
		Short: "Load a model without a window and print its cubies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
	cmd.AddCommand(presetsCmd, inspectCmd)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run() error {
	prefs := config.LoadPrefs(config.PrefsPath)
	name := firstNonEmpty(presetName, env.Get("PRESET", ""), prefs.Preset, config.DefaultPreset)
	preset, err := config.Load(name, configPath)
	if err != nil {
		return err
	}
	model := firstNonEmpty(modelPath, env.Get("MODEL", ""), preset.Model, asset.DefaultModel)

	log := logger.New(logPath)
	log.SetMirror(os.Stderr)
	log.Infof("viewer starting: preset %s, model %s", preset.Name, model)

	sess := session.New(preset, log, time.Now())
	defer sess.Close()
	scn := scene.New(preset)
	scn.Attach(sess)
	dbg := debug.New()
	dbg.SetShowFPS(prefs.ShowFPS)
	dbg.SetShowMemAlloc(prefs.ShowMemAlloc)
	dbg.SetShowState(prefs.ShowState)
	dbg.SetShowLog(prefs.ShowLog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess.Begin(ctx, asset.GLTF{}, model)

	update := func() {
		sess.Update(time.Now())
		scn.Update()
	}
	draw := func() {
		scn.Draw(sess)
		status := debug.Status{
			Phase:    sess.Phase().String(),
			Scramble: sess.State().String(),
			Cubies:   len(sess.Cubies),
			Timers:   sess.Scheduler().Pending(),
		}
		if dbg.ShowLog {
			status.Log = log.Tail(debug.LogLines)
		}
		dbg.Draw(status)
	}
	graphics.Run(graphics.DefaultWindow(), sess.Resize, update, draw)
	scn.Unload()

	prefs.Preset = preset.Name
	if err := config.SavePrefs(config.PrefsPath, prefs); err != nil {
		log.Warnf("save preferences: %v", err)
	}
	log.Infof("viewer closed")
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
