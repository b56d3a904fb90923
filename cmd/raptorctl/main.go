// Command raptorctl runs a search against a serialized in-memory transit
// network from the command line, exercising both state-store profiles and
// both search directions without needing the HTTP server (spec §10 "CLI /
// test tooling").
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/antigravity/transitcore/internal/transit"
	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/tdp"
)

// networkFile is the on-disk JSON shape raptorctl loads: a plain
// serialization of the three slices tdp.New needs. This is not a format the
// core defines (spec §6: "on-disk network serialization ... out of scope");
// it exists purely so this command has something to point at without a
// running Postgres instance.
type networkFile struct {
	Stops     []model.Stop                          `json:"stops"`
	Patterns  []model.Pattern                        `json:"patterns"`
	Transfers map[model.StopIndex][]model.Transfer `json:"transfers"`
}

func loadNetwork(path string) (tdp.Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var nf networkFile
	if err := json.NewDecoder(f).Decode(&nf); err != nil {
		return nil, err
	}
	return tdp.New(nf.Stops, nf.Patterns, nf.Transfers)
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var (
		networkPath string
		fromStop    int
		toStop      int
		earliest    int64
		window      int64
		maxTransfers int
		reverse     bool
		multiCriteria bool
	)

	root := &cobra.Command{
		Use:   "raptorctl",
		Short: "Run a range-RAPTOR search against a serialized transit network",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := loadNetwork(networkPath)
			if err != nil {
				log.Error().Err(err).Str("network", networkPath).Msg("failed to load network")
				return err
			}

			dir := model.Forward
			if reverse {
				dir = model.Reverse
			}
			profile := model.BestTimes
			if multiCriteria {
				profile = model.MultiCriteria
			}

			req := &transit.Request{
				EarliestDepartureTime: earliest,
				SearchWindowSeconds:   window,
				MaxTransfers:          maxTransfers,
				AccessLegs:            []model.Leg{{Stop: model.StopIndex(fromStop)}},
				EgressLegs:            []model.Leg{{Stop: model.StopIndex(toStop)}},
				Direction:             dir,
				Profile:               profile,
			}

			log.Info().Int("from", fromStop).Int("to", toStop).Str("direction", dir.String()).Msg("route query received")

			resp, err := transit.Run(context.Background(), provider, req)
			if err != nil {
				log.Error().Err(err).Msg("search failed")
				return err
			}

			fmt.Printf("paths=%d iterations=%d rounds=%d patternsScanned=%d partial=%v\n",
				len(resp.Paths), resp.Counters.Iterations, resp.Counters.Rounds, resp.Counters.PatternsScanned, resp.Partial)
			for i, p := range resp.Paths {
				fmt.Printf("path %d: transfers=%d cost=%d travelDuration=%ds legs=%d\n", i, p.NumTransfers, p.Cost, p.TravelDuration, len(p.Legs))
				for _, leg := range p.Legs {
					fmt.Printf("  %-8s stop %d -> %d  %d -> %d\n", leg.Kind, leg.FromStop, leg.ToStop, leg.DepartureTime, leg.ArrivalTime)
				}
			}
			return nil
		},
	}

	root.Flags().StringVar(&networkPath, "network", "", "path to a serialized network JSON file")
	root.Flags().IntVar(&fromStop, "from", 0, "origin stop index")
	root.Flags().IntVar(&toStop, "to", 0, "destination stop index")
	root.Flags().Int64Var(&earliest, "earliest", 0, "earliest departure time, seconds since midnight")
	root.Flags().Int64Var(&window, "window", 0, "search window, seconds")
	root.Flags().IntVar(&maxTransfers, "max-transfers", 3, "maximum transfers")
	root.Flags().BoolVar(&reverse, "reverse", false, "run an arrive-by search instead of depart-at")
	root.Flags().BoolVar(&multiCriteria, "multi-criteria", false, "run McRAPTOR instead of single-criterion RAPTOR")
	root.MarkFlagRequired("network")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
