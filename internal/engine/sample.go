package engine

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"imdb-pump/internal/tsv"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/klauspost/compress/gzip"
)

// SampleOptions controls GenerateSample.
type SampleOptions struct {
	Rows      int     // rows per file
	Seed      int64   // fixed seed for reproducible output
	NullRatio float64 // probability of \N in nullable fields, 0..1
}

var titleTypes = []string{"movie", "short", "tvSeries", "tvEpisode", "tvMovie", "videoGame"}
var genreNames = []string{"Drama", "Comedy", "Documentary", "Action", "Romance", "Thriller", "Crime", "Horror"}
var categories = []string{"actor", "actress", "director", "writer", "producer", "composer", "self"}
var akaTypes = []string{"original", "imdbDisplay", "alternative", "working", "festival"}

type sampleFile struct {
	name    string
	headers []string
	row     func(g *sampleGen, i int) []string
}

// Same headers as the published dataset, including fields the import ignores.
var sampleFiles = []sampleFile{
	{
		name:    "name.basics.tsv.gz",
		headers: []string{"nconst", "primaryName", "birthYear", "deathYear", "primaryProfession", "knownForTitles"},
		row: func(g *sampleGen, i int) []string {
			born := g.f.Number(1880, 2010)
			return []string{
				personID(i),
				g.f.Name(),
				g.nullable(strconv.Itoa(born)),
				g.nullable(strconv.Itoa(born + g.f.Number(20, 90))),
				g.nullable(strings.Join([]string{g.f.RandomString(categories), g.f.RandomString(categories)}, ",")),
				g.nullable(titleID(g.f.Number(1, g.rows)) + "," + titleID(g.f.Number(1, g.rows))),
			}
		},
	},
	{
		name:    "title.basics.tsv.gz",
		headers: []string{"tconst", "titleType", "primaryTitle", "originalTitle", "isAdult", "startYear", "endYear", "runtimeMinutes", "genres"},
		row: func(g *sampleGen, i int) []string {
			title := g.title()
			start := g.f.Number(1900, 2026)
			return []string{
				titleID(i),
				g.f.RandomString(titleTypes),
				title,
				g.nullable(title),
				boolDigit(g.f.Number(0, 99) == 0),
				g.nullable(strconv.Itoa(start)),
				g.nullable(strconv.Itoa(start + g.f.Number(0, 15))),
				g.nullable(strconv.Itoa(g.f.Number(5, 240))),
				g.nullable(g.f.RandomString(genreNames) + "," + g.f.RandomString(genreNames)),
			}
		},
	},
	{
		name:    "title.akas.tsv.gz",
		headers: []string{"titleId", "ordering", "title", "region", "language", "types", "attributes", "isOriginalTitle"},
		row: func(g *sampleGen, i int) []string {
			return []string{
				titleID(g.f.Number(1, g.rows)),
				strconv.Itoa(g.f.Number(1, 20)),
				g.title(),
				g.nullable(g.f.CountryAbr()),
				g.nullable(strings.ToLower(g.f.LanguageAbbreviation())),
				g.nullable(g.f.RandomString(akaTypes)),
				g.nullable(g.f.Word()),
				boolDigit(g.f.Bool()),
			}
		},
	},
	{
		name:    "title.principals.tsv.gz",
		headers: []string{"tconst", "ordering", "nconst", "category", "job", "characters"},
		row: func(g *sampleGen, i int) []string {
			return []string{
				titleID(g.f.Number(1, g.rows)),
				strconv.Itoa(g.f.Number(1, 10)),
				personID(g.f.Number(1, g.rows)),
				g.f.RandomString(categories),
				g.nullable(g.f.JobTitle()),
				g.nullable(fmt.Sprintf(`["%s"]`, g.f.FirstName())),
			}
		},
	},
	{
		name:    "title.episode.tsv.gz",
		headers: []string{"tconst", "parentTconst", "seasonNumber", "episodeNumber"},
		row: func(g *sampleGen, i int) []string {
			return []string{
				titleID(i),
				titleID(g.f.Number(1, g.rows)),
				g.nullable(strconv.Itoa(g.f.Number(1, 30))),
				g.nullable(strconv.Itoa(g.f.Number(1, 200))),
			}
		},
	},
	{
		name:    "title.ratings.tsv.gz",
		headers: []string{"tconst", "averageRating", "numVotes"},
		row: func(g *sampleGen, i int) []string {
			return []string{
				titleID(i),
				strconv.FormatFloat(float64(g.f.Number(10, 100))/10, 'f', 1, 64),
				strconv.Itoa(g.f.Number(5, 2_000_000)),
			}
		},
	},
}

type sampleGen struct {
	f         *gofakeit.Faker
	rows      int
	nullRatio float64
}

func (g *sampleGen) nullable(v string) string {
	if g.nullRatio > 0 && g.f.Float64Range(0, 1) < g.nullRatio {
		return tsv.Null
	}
	return v
}

func (g *sampleGen) title() string {
	return strings.TrimSuffix(g.f.Sentence(g.f.Number(1, 4)), ".")
}

func titleID(i int) string  { return fmt.Sprintf("tt%07d", i) }
func personID(i int) string { return fmt.Sprintf("nm%07d", i) }

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// GenerateSample writes gzip-compressed files shaped like the published IMDb
// datasets into dir and returns their paths. Identifiers are sequential so
// primary keys never collide.
func GenerateSample(dir string, opts SampleOptions) ([]string, error) {
	if opts.Rows <= 0 {
		return nil, fmt.Errorf("rows must be positive, got %d", opts.Rows)
	}
	if opts.NullRatio < 0 || opts.NullRatio > 1 {
		return nil, fmt.Errorf("null ratio must be between 0 and 1, got %v", opts.NullRatio)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	g := &sampleGen{f: gofakeit.New(opts.Seed), rows: opts.Rows, nullRatio: opts.NullRatio}
	var paths []string
	for _, sf := range sampleFiles {
		path := filepath.Join(dir, sf.name)
		if err := writeSampleFile(path, sf, g); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSampleFile(path string, sf sampleFile, g *sampleGen) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	zw := gzip.NewWriter(f)
	w := bufio.NewWriter(zw)
	w.WriteString(strings.Join(sf.headers, "\t"))
	w.WriteByte('\n')
	for i := 1; i <= g.rows; i++ {
		w.WriteString(strings.Join(sf.row(g, i), "\t"))
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
