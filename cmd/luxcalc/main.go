// Package main is the LuxPlan one-shot calculator: it solves a single
// placement against the built-in catalog and prints the result.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxplan/luxplan-go/internal/fixtures"
	"github.com/luxplan/luxplan-go/internal/services/solver"
)

var (
	flagTStop     float64
	flagISO       int
	flagFPS       float64
	flagLight     string
	flagModifier  string
	flagColorTemp string
	flagMode      string
	flagDistance  float64
	flagIntensity float64
	flagJSON      bool
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "luxcalc",
		Short: "LuxPlan calculator - solve light placement for correct exposure",
		Long: `luxcalc solves where to place a light and how hard to drive it for a
correct exposure, given camera settings and a light from the built-in
catalog.

Without --mode it balances distance and intensity automatically; passing
--distance or --intensity switches to the matching fixed solve.`,
		RunE:          runSolve,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.Flags().Float64Var(&flagTStop, "t-stop", 2.8, "Lens T-stop")
	rootCmd.Flags().IntVar(&flagISO, "iso", 800, "Sensor ISO")
	rootCmd.Flags().Float64Var(&flagFPS, "fps", 24, "Framerate in frames per second")
	rootCmd.Flags().StringVar(&flagLight, "light", "", "Light model name from the catalog")
	rootCmd.Flags().StringVar(&flagModifier, "modifier", "", "Diffusion or beam modifier (defaults to the light's first)")
	rootCmd.Flags().StringVar(&flagColorTemp, "color-temp", "", "Color temperature (defaults to the light's first)")
	rootCmd.Flags().StringVar(&flagMode, "mode", "", "Solve mode: auto, distance, or intensity")
	rootCmd.Flags().Float64Var(&flagDistance, "distance", 0, "Fixed placement distance in meters")
	rootCmd.Flags().Float64Var(&flagIntensity, "intensity", 0, "Fixed drive intensity in percent")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the result as JSON")
	_ = rootCmd.MarkFlagRequired("light")

	return rootCmd
}

func resolveMode(cmd *cobra.Command) (solver.Mode, error) {
	switch flagMode {
	case "":
		// Infer the mode from which fixed flag was given
		if cmd.Flags().Changed("distance") {
			return solver.ModeFixedDistance, nil
		}
		if cmd.Flags().Changed("intensity") {
			return solver.ModeFixedIntensity, nil
		}
		return solver.ModeAuto, nil
	case "auto":
		return solver.ModeAuto, nil
	case "distance":
		return solver.ModeFixedDistance, nil
	case "intensity":
		return solver.ModeFixedIntensity, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want auto, distance, or intensity)", flagMode)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	catalog, err := fixtures.BuiltIn()
	if err != nil {
		return err
	}

	mode, err := resolveMode(cmd)
	if err != nil {
		return err
	}

	req := solver.Request{
		TStop:     flagTStop,
		ISO:       flagISO,
		Framerate: flagFPS,
		Fixture:   flagLight,
		Modifier:  flagModifier,
		ColorTemp: flagColorTemp,
		Mode:      mode,
	}
	if cmd.Flags().Changed("distance") {
		req.Distance = &flagDistance
	}
	if cmd.Flags().Changed("intensity") {
		req.Intensity = &flagIntensity
	}

	result, err := solver.New(catalog).Solve(req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return printJSON(out, req, result)
	}

	profile, _ := catalog.Get(req.Fixture)
	printHuman(out, profile, req, result)
	return nil
}

type cameraOutput struct {
	TStop     float64 `json:"t_stop"`
	ISO       int     `json:"iso"`
	Framerate float64 `json:"framerate"`
}

type jsonOutput struct {
	Distance            float64      `json:"distance"`
	Intensity           float64      `json:"intensity"`
	ExposureWarning     *string      `json:"exposure_warning"`
	CalculationModeText string       `json:"calculation_mode_text"`
	CameraSettings      cameraOutput `json:"camera_settings"`
}

func printJSON(w io.Writer, req solver.Request, result solver.Result) error {
	var warning *string
	if result.Warning != solver.WarningNone {
		s := string(result.Warning)
		warning = &s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput{
		Distance:            result.Distance,
		Intensity:           result.Intensity,
		ExposureWarning:     warning,
		CalculationModeText: result.ModeText,
		CameraSettings: cameraOutput{
			TStop:     req.TStop,
			ISO:       req.ISO,
			Framerate: req.Framerate,
		},
	})
}

func printHuman(w io.Writer, profile *fixtures.Profile, req solver.Request, result solver.Result) {
	m := profile.Resolve(req.Modifier, req.ColorTemp)

	fmt.Fprintf(w, "Light:     %s (%s, %s)\n", profile.Name, m.Modifier, m.ColorTemp)
	fmt.Fprintf(w, "Camera:    T%g, ISO %d, %g fps\n", req.TStop, req.ISO, req.Framerate)
	fmt.Fprintf(w, "Distance:  %.2f m\n", result.Distance)
	fmt.Fprintf(w, "Intensity: %.1f%%\n", result.Intensity)
	fmt.Fprintf(w, "Mode:      %s\n", result.ModeText)
	if result.Warning != solver.WarningNone {
		fmt.Fprintf(w, "Warning:   %s\n", result.Warning)
	}
}
