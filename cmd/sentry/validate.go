package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yskaart/sentry/internal/world"
	"github.com/yskaart/sentry/internal/zone"
)

func (a *App) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a scene config",
		Long: `Load the scene config and build the world without running it. Catches
bad timers, empty patrol routes, duplicate IDs and broken zone geometry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := a.loadScene()
			if err != nil {
				return err
			}
			w, err := world.FromScene(scene)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			fmt.Fprintf(a.stdout, "scene %q is valid: %d agents, %d obstacles, %d zones (%d stealth, %d goal)\n",
				scene.Name, w.AgentCount(), w.ObstacleCount(), w.ZoneCount(""),
				w.ZoneCount(zone.KindStealth), w.ZoneCount(zone.KindGoal))
			return nil
		},
	}
}
