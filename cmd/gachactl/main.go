// Command gachactl builds and inspects gacha datasets offline.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/okian/gacha/internal/adapters/datasetfile"
	"github.com/okian/gacha/internal/config"
	"github.com/okian/gacha/internal/domain/battle"
	"github.com/okian/gacha/internal/domain/dataset"
	"github.com/okian/gacha/internal/domain/draw"
	"github.com/okian/gacha/internal/domain/model"
	"github.com/okian/gacha/pkg/logger"
)

func main() {
	if err := logger.InitWithOptions(logger.Options{Output: os.Stderr}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "gachactl",
		Usage: "build, simulate and inspect Worlds gacha datasets",
		Commands: []*cli.Command{
			buildCommand(),
			simulateCommand(),
			inspectCommand(),
		},
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "build a dataset from historical result rows",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "csv", Usage: "year,team,player,result rows", Required: true},
			&cli.StringFlag{Name: "positions", Usage: "existing dataset whose players' positions are reused", Required: true},
			&cli.StringFlag{Name: "out", Usage: "output dataset path", Value: "data/players.json"},
			&cli.BoolFlag{Name: "verbose", Usage: "log every skipped row"},
		},
		Action: func(c *cli.Context) error {
			out := c.App.Writer

			f, err := os.Open(c.String("csv"))
			if err != nil {
				return fmt.Errorf("open rows: %w", err)
			}
			defer f.Close()
			rows, parsed, err := dataset.ParseRows(f)
			if err != nil {
				return err
			}

			prev, err := datasetfile.Load(c.String("positions"))
			if err != nil {
				return fmt.Errorf("load positions: %w", err)
			}
			idx := dataset.PositionIndexFromDataset(prev)

			opts := []dataset.Option{}
			if c.Bool("verbose") {
				opts = append(opts, dataset.WithLogger(logger.Named("builder")))
			}
			ds, report := dataset.NewBuilder(opts...).Build(c.Context, rows, idx)
			if err := dataset.Validate(ds); err != nil {
				printRows(out, parsed, report)
				printUnresolved(out, report)
				return fmt.Errorf("built dataset is unusable: %w", err)
			}
			if err := datasetfile.Save(c.String("out"), ds); err != nil {
				return err
			}

			printBuild(out, c.String("out"), ds, parsed, report)
			return nil
		},
	}
}

func printBuild(out io.Writer, path string, ds *model.Dataset, parsed dataset.ParseStats, report dataset.Report) {
	md := ds.Metadata
	fmt.Fprintf(out, "wrote %s\n", path)
	printRows(out, parsed, report)
	fmt.Fprintf(out, "cards: %d  players: %d  years: %d-%d\n",
		md.TotalCards, md.TotalPlayers, md.YearRange.Min, md.YearRange.Max)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GRADE\tCARDS")
	for _, g := range model.Grades() {
		fmt.Fprintf(tw, "%s\t%d\n", g, md.GradeDistribution[g])
	}
	fmt.Fprintln(tw, "POSITION\tCARDS")
	for _, p := range model.Positions() {
		fmt.Fprintf(tw, "%s\t%d\n", p, md.PositionDistribution[p])
	}
	_ = tw.Flush()

	printUnresolved(out, report)
}

func printRows(out io.Writer, parsed dataset.ParseStats, report dataset.Report) {
	fmt.Fprintf(out, "rows: %d read, %d malformed, %d duplicates, %d unresolved\n",
		parsed.Rows, parsed.Malformed, report.Duplicates, len(report.Unresolved))
}

func printUnresolved(out io.Writer, report dataset.Report) {
	if len(report.Unresolved) > 0 {
		fmt.Fprintln(out, "skipped rows without a position:")
		for _, s := range report.Unresolved {
			fmt.Fprintf(out, "  line %d: %s (%d)\n", s.Line, s.Player, s.Year)
		}
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "draw many teams and report grade frequencies and team power",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dataset", Usage: "dataset path", Value: "data/players.json"},
			&cli.IntFlag{Name: "n", Usage: "teams to draw", Value: 10000},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed; 0 picks one"},
		},
		Action: func(c *cli.Context) error {
			ds, err := datasetfile.Load(c.String("dataset"))
			if err != nil {
				return err
			}
			// The grade distribution comes from the same layered config as the service.
			cfg, err := config.Load(c.Context)
			if err != nil {
				return err
			}
			dist, err := cfg.Distribution()
			if err != nil {
				return err
			}

			seed := c.Uint64("seed")
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			engine, err := draw.NewEngine(ds, draw.WithDistribution(dist), draw.WithRandomSource(draw.NewSeededSource(seed)))
			if err != nil {
				return err
			}
			sim, err := draw.Simulate(c.Context, engine, c.Int("n"), battle.TeamPower)
			if err != nil {
				return err
			}
			printSimulation(c.App.Writer, seed, dist, sim)
			return nil
		},
	}
}

func printSimulation(out io.Writer, seed uint64, dist draw.Distribution, sim draw.Simulation) {
	fmt.Fprintf(out, "teams: %d  slots: %d  fallbacks: %d  seed: %d\n", sim.Teams, sim.Slots, sim.Fallbacks, seed)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GRADE\tEXPECTED\tROLLED\tDELIVERED")
	for _, g := range model.Grades() {
		delivered := 0.0
		if sim.Slots > 0 {
			delivered = float64(sim.Delivered[g]) / float64(sim.Slots)
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\n", g, dist[g], sim.RolledShare(g), delivered)
	}
	_ = tw.Flush()

	p := sim.Power
	fmt.Fprintf(out, "power: mean %.1f  sd %.1f  min %d  p50 %.0f  p90 %.0f  p99 %.0f  max %d\n",
		p.Mean, p.StdDev, p.Min, p.P50, p.P90, p.P99, p.Max)
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "print a player's cards and career, or the dataset summary",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dataset", Usage: "dataset path", Value: "data/players.json"},
			&cli.StringFlag{Name: "player", Usage: "player name or id"},
		},
		Action: func(c *cli.Context) error {
			ds, err := datasetfile.Load(c.String("dataset"))
			if err != nil {
				return err
			}
			out := c.App.Writer
			player := c.String("player")
			if player == "" {
				md := ds.Metadata
				fmt.Fprintf(out, "cards: %d  players: %d  years: %d-%d  generated: %s\n",
					md.TotalCards, md.TotalPlayers, md.YearRange.Min, md.YearRange.Max,
					md.GeneratedAt.Format(time.RFC3339))
				return nil
			}
			return printPlayer(out, ds, dataset.PlayerID(player))
		},
	}
}

func printPlayer(out io.Writer, ds *model.Dataset, playerID string) error {
	var cards []model.Card
	for _, c := range ds.Players {
		if c.PlayerID == playerID {
			cards = append(cards, c)
		}
	}
	if len(cards) == 0 {
		return fmt.Errorf("no cards for player %q", playerID)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tYEAR\tTEAM\tPOS\tRESULT\tSCORE\tGRADE")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\t%s\n", c.ID, c.Year, c.Team, c.Position, c.Result, c.Score, c.Grade)
	}
	_ = tw.Flush()

	for _, career := range ds.Careers {
		if career.PlayerID != playerID {
			continue
		}
		fmt.Fprintf(out, "career: %d appearances, %d titles, %d finals, best %s, teams %s\n",
			career.Appearances, career.Championships, career.Finals, career.BestResult,
			strings.Join(career.Teams, ", "))
	}
	return nil
}
