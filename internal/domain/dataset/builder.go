package dataset

import (
	"context"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/gacha/internal/domain/dedupe"
	"github.com/okian/gacha/internal/domain/model"
	"github.com/okian/gacha/internal/domain/scoring"
	"github.com/okian/gacha/pkg/logger"
)

// SkippedRow describes a row dropped because its player has no position.
type SkippedRow struct {
	Line       int    `json:"line"`
	Player     string `json:"player"`
	Normalized string `json:"normalized"`
	Year       int    `json:"year"`
}

// Report lists the data-quality issues found during a build. Issues never
// abort the build.
type Report struct {
	Rows       int          `json:"rows"`
	Accepted   int          `json:"accepted"`
	Duplicates int          `json:"duplicates"`
	Unresolved []SkippedRow `json:"unresolved"`
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithScorer replaces the default score tables.
func WithScorer(s scoring.Scorer) Option {
	return func(b *Builder) {
		if s != nil {
			b.scorer = s
		}
	}
}

// WithLogger sets the logger used for skipped-row warnings.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock sets the source of the generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// Builder converts raw rows into a Dataset.
type Builder struct {
	scorer scoring.Scorer
	logger logger.Logger
	now    func() time.Time
}

// NewBuilder creates a builder with the default scorer.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		scorer: scoring.NewTableScorer(),
		logger: logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// careerAcc accumulates one player's career while rows stream in.
type careerAcc struct {
	career model.Career
	years  map[int]struct{}
	teams  map[string]struct{}
}

func newCareerAcc(playerID, name string, first model.Result) *careerAcc {
	return &careerAcc{
		career: model.Career{PlayerID: playerID, Name: name, BestResult: first},
		years:  make(map[int]struct{}),
		teams:  make(map[string]struct{}),
	}
}

func (a *careerAcc) add(row Row) {
	a.years[row.Year] = struct{}{}
	if _, ok := a.teams[row.Team]; !ok {
		a.teams[row.Team] = struct{}{}
		a.career.Teams = append(a.career.Teams, row.Team)
	}
	switch row.Result {
	case model.ResultChampion:
		a.career.Championships++
	case model.ResultRunnerUp:
		a.career.Finals++
	case model.ResultSemifinals:
		a.career.Semifinals++
	case model.ResultQuarterfinals, model.ResultGroupStage:
	}
	if row.Result.BetterThan(a.career.BestResult) {
		a.career.BestResult = row.Result
	}
}

func (a *careerAcc) finish() model.Career {
	c := a.career
	c.Appearances = len(a.years)
	c.Years = make([]int, 0, len(a.years))
	for y := range a.years {
		c.Years = append(c.Years, y)
	}
	sort.Ints(c.Years)
	return c
}

// Build scores, grades and deduplicates rows and aggregates careers.
// Position lookup runs before the (player, year) key is recorded, so a row
// dropped as unresolved never shadows a later resolvable row for the same
// card; for example "Faker." (unknown) followed by "Faker" in one year
// still yields faker-<year>.
func (b *Builder) Build(ctx context.Context, rows []Row, idx PositionIndex) (*model.Dataset, Report) {
	report := Report{Rows: len(rows)}
	seen := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(len(rows)))
	cards := make([]model.Card, 0, len(rows))
	careers := make(map[string]*careerAcc)
	order := make([]string, 0)

	for _, row := range rows {
		pos, ok := idx.Lookup(row.Player)
		if !ok {
			skipped := SkippedRow{Line: row.Line, Player: row.Player, Normalized: NormalizeName(row.Player), Year: row.Year}
			report.Unresolved = append(report.Unresolved, skipped)
			b.logger.Warn(ctx, "position not found",
				logger.String("player", row.Player),
				logger.String("normalized", skipped.Normalized),
				logger.Int("line", row.Line),
			)
			continue
		}

		playerID := PlayerID(row.Player)
		id := dedupe.Key(playerID, row.Year)
		if seen.SeenAndRecord(ctx, id) {
			report.Duplicates++
			continue
		}

		score := b.scorer.Score(scoring.Input{Result: row.Result, Year: row.Year, Team: row.Team})
		cards = append(cards, model.Card{
			ID:       id,
			PlayerID: playerID,
			Name:     row.Player,
			Year:     row.Year,
			Team:     row.Team,
			Position: pos,
			Grade:    b.scorer.Grade(score),
			Score:    score,
			Result:   row.Result,
		})

		acc, ok := careers[playerID]
		if !ok {
			acc = newCareerAcc(playerID, row.Player, row.Result)
			careers[playerID] = acc
			order = append(order, playerID)
		}
		acc.add(row)
	}
	report.Accepted = len(cards)

	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Score != cards[j].Score {
			return cards[i].Score > cards[j].Score
		}
		return cards[i].Year > cards[j].Year
	})

	summaries := make([]model.Career, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, careers[id].finish())
	}
	SortCareers(summaries)

	ds := &model.Dataset{Players: cards, Careers: summaries}
	ds.Metadata = Summarize(ds, b.now().UTC())
	return ds, report
}

// SortCareers orders by championships desc, appearances desc, then name.
func SortCareers(careers []model.Career) {
	collator := collate.New(language.English)
	sort.SliceStable(careers, func(i, j int) bool {
		a, b := careers[i], careers[j]
		if a.Championships != b.Championships {
			return a.Championships > b.Championships
		}
		if a.Appearances != b.Appearances {
			return a.Appearances > b.Appearances
		}
		return collator.CompareString(a.Name, b.Name) < 0
	})
}

// Summarize computes dataset metadata. Every grade and position appears in
// the distributions, zero counts included.
func Summarize(ds *model.Dataset, generatedAt time.Time) model.Metadata {
	md := model.Metadata{
		TotalCards:           len(ds.Players),
		TotalPlayers:         len(ds.Careers),
		GeneratedAt:          generatedAt,
		GradeDistribution:    make(map[model.Grade]int, len(model.Grades())),
		PositionDistribution: make(map[model.Position]int, model.PositionCount),
	}
	for _, g := range model.Grades() {
		md.GradeDistribution[g] = 0
	}
	for _, p := range model.Positions() {
		md.PositionDistribution[p] = 0
	}
	for i, c := range ds.Players {
		md.GradeDistribution[c.Grade]++
		md.PositionDistribution[c.Position]++
		if i == 0 || c.Year < md.YearRange.Min {
			md.YearRange.Min = c.Year
		}
		if i == 0 || c.Year > md.YearRange.Max {
			md.YearRange.Max = c.Year
		}
	}
	return md
}
