package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/solar-potential/internal/config"
	"github.com/i474232898/solar-potential/internal/solar"
)

// queryFunc runs one engine operation and returns its result.
type queryFunc func(ctx context.Context, svc *solar.Service) (any, error)

func runQuery(cmd *cobra.Command, input any, q queryFunc) error {
	if err := solar.Validate(input); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := q(ctx, buildService(cfg))
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addPointFlags(cmd *cobra.Command, p *solar.PointQuery) {
	cmd.Flags().Float64Var(&p.Lat, "lat", 0, "latitude in degrees [-90,90]")
	cmd.Flags().Float64Var(&p.Lon, "lon", 0, "longitude in degrees [-180,180]")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
}

func overviewCmd() *cobra.Command {
	var q solar.PointQuery
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Irradiance summary and site rating",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, q, func(ctx context.Context, svc *solar.Service) (any, error) {
				return svc.Overview(ctx, q.Location())
			})
		},
	}
	addPointFlags(cmd, &q)
	return cmd
}

func resourceCmd() *cobra.Command {
	var q solar.PointQuery
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Monthly GHI, DNI and latitude-tilt irradiance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, q, func(ctx context.Context, svc *solar.Service) (any, error) {
				return svc.SolarResource(ctx, q.Location())
			})
		},
	}
	addPointFlags(cmd, &q)
	return cmd
}

func estimateCmd() *cobra.Command {
	var (
		q                     solar.EstimateQuery
		module                string
		tilt, azimuth, losses float64
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Simulated annual and monthly PV output",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("tilt") {
				q.TiltDeg = &tilt
			}
			if cmd.Flags().Changed("azimuth") {
				q.AzimuthDeg = &azimuth
			}
			if cmd.Flags().Changed("losses") {
				q.LossesPercent = &losses
			}
			q.ModuleType = solar.ModuleType(module)
			return runQuery(cmd, q, func(ctx context.Context, svc *solar.Service) (any, error) {
				return svc.PVEstimate(ctx, q.Location(), q.System())
			})
		},
	}
	addPointFlags(cmd, &q.PointQuery)
	cmd.Flags().Float64VarP(&q.CapacityKW, "capacity", "c", 0, "system capacity in kW")
	cmd.Flags().Float64Var(&tilt, "tilt", 0, "panel tilt in degrees (default |lat|)")
	cmd.Flags().Float64Var(&azimuth, "azimuth", 0, "panel azimuth in degrees (default 180)")
	cmd.Flags().Float64Var(&losses, "losses", 0, "system losses in percent (default 14)")
	cmd.Flags().StringVarP(&module, "module", "m", "", "module type: standard, premium, thinfilm")
	_ = cmd.MarkFlagRequired("capacity")
	return cmd
}

func forecastCmd() *cobra.Command {
	var q solar.ForecastQuery
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Hourly radiation forecast with daily summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, q, func(ctx context.Context, svc *solar.Service) (any, error) {
				return svc.RadiationForecast(ctx, q.Location(), q.Days)
			})
		},
	}
	addPointFlags(cmd, &q.PointQuery)
	cmd.Flags().IntVarP(&q.Days, "days", "d", 7, "forecast days [1,16]")
	return cmd
}

func tiltCmd() *cobra.Command {
	var q solar.TiltQuery
	cmd := &cobra.Command{
		Use:   "tilt",
		Short: "Search for the tilt with the highest annual output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, q, func(ctx context.Context, svc *solar.Service) (any, error) {
				return svc.OptimalTilt(ctx, q.Location(), q.CapacityKW)
			})
		},
	}
	addPointFlags(cmd, &q.PointQuery)
	cmd.Flags().Float64VarP(&q.CapacityKW, "capacity", "c", 0, "system capacity in kW")
	_ = cmd.MarkFlagRequired("capacity")
	return cmd
}

func compareCmd() *cobra.Command {
	var (
		sitesPath string
		capacity  float64
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank 2-5 sites by simulated annual output",
		Long: `Rank sites listed in a YAML file by simulated annual output.

Example sites.yaml:
  capacity: 5
  locations:
    - name: Denver
      lat: 39.74
      lon: -104.99
    - lat: 33.45
      lon: -112.07`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadCompareRequest(sitesPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("capacity") {
				req.CapacityKW = capacity
			}
			return runQuery(cmd, req, func(ctx context.Context, svc *solar.Service) (any, error) {
				return svc.CompareLocations(ctx, req.Named(), req.CapacityKW)
			})
		},
	}
	cmd.Flags().StringVarP(&sitesPath, "sites", "f", "", "YAML file with capacity and locations")
	cmd.Flags().Float64VarP(&capacity, "capacity", "c", 0, "system capacity in kW (overrides the file)")
	_ = cmd.MarkFlagRequired("sites")
	return cmd
}

func loadCompareRequest(path string) (solar.CompareRequest, error) {
	var req solar.CompareRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read sites file: %w", err)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parse sites file: %w", err)
	}
	return req, nil
}
