package schema

import "imdb-pump/internal/dialect"

// Files and their corresponding table mappings. The files are imported in the
// order listed and are published at https://datasets.imdbws.com/
// (format documented at https://developer.imdb.com/non-commercial-datasets/).
var registry = []TableMapping{
	{
		File:  "name.basics.tsv.gz",
		Table: "people",
		Columns: []Column{
			{Source: "nconst", Name: "person_id", Type: dialect.Text, PrimaryKey: true},
			{Source: "primaryName", Name: "name", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "birthYear", Name: "born", Type: dialect.Integer, Nullable: true},
			{Source: "deathYear", Name: "died", Type: dialect.Integer, Nullable: true},
		},
	},
	{
		File:  "title.basics.tsv.gz",
		Table: "titles",
		Columns: []Column{
			{Source: "tconst", Name: "title_id", Type: dialect.Text, PrimaryKey: true},
			{Source: "titleType", Name: "type", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "primaryTitle", Name: "primary_title", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "originalTitle", Name: "original_title", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "isAdult", Name: "is_adult", Type: dialect.Integer, Nullable: true},
			{Source: "startYear", Name: "premiered", Type: dialect.Integer, Nullable: true},
			{Source: "endYear", Name: "ended", Type: dialect.Integer, Nullable: true},
			{Source: "runtimeMinutes", Name: "runtime_minutes", Type: dialect.Integer, Nullable: true},
			{Source: "genres", Name: "genres", Type: dialect.Text, Nullable: true},
		},
	},
	{
		File:  "title.akas.tsv.gz",
		Table: "akas",
		Columns: []Column{
			{Source: "titleId", Name: "title_id", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "title", Name: "title", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "region", Name: "region", Type: dialect.Text, Nullable: true},
			{Source: "language", Name: "language", Type: dialect.Text, Nullable: true},
			{Source: "types", Name: "types", Type: dialect.Text, Nullable: true},
			{Source: "attributes", Name: "attributes", Type: dialect.Text, Nullable: true},
			{Source: "isOriginalTitle", Name: "is_original_title", Type: dialect.Integer, Nullable: true},
		},
	},
	{
		File:  "title.principals.tsv.gz",
		Table: "crew",
		Columns: []Column{
			{Source: "tconst", Name: "title_id", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "nconst", Name: "person_id", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "category", Name: "category", Type: dialect.Text, Nullable: true},
			{Source: "job", Name: "job", Type: dialect.Text, Nullable: true},
			{Source: "characters", Name: "characters", Type: dialect.Text, Nullable: true},
		},
	},
	{
		File:  "title.episode.tsv.gz",
		Table: "episodes",
		Columns: []Column{
			{Source: "tconst", Name: "episode_title_id", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "parentTconst", Name: "show_title_id", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "seasonNumber", Name: "season_number", Type: dialect.Integer, Nullable: true},
			{Source: "episodeNumber", Name: "episode_number", Type: dialect.Integer, Nullable: true},
		},
	},
	{
		File:  "title.ratings.tsv.gz",
		Table: "ratings",
		Columns: []Column{
			{Source: "tconst", Name: "title_id", Type: dialect.Text, PrimaryKey: true},
			{Source: "averageRating", Name: "rating", Type: dialect.Real, Nullable: true},
			{Source: "numVotes", Name: "votes", Type: dialect.Integer, Nullable: true},
		},
	},
}

// Registry returns the table mappings in import order.
// The result is a copy; callers may not alter the registry.
func Registry() []TableMapping {
	out := make([]TableMapping, len(registry))
	for i, m := range registry {
		m.Columns = append([]Column(nil), m.Columns...)
		out[i] = m
	}
	return out
}

// Files returns the source file names in import order.
func Files() []string {
	files := make([]string, len(registry))
	for i, m := range registry {
		files[i] = m.File
	}
	return files
}

// TableNames returns the table names in creation order.
func TableNames() []string {
	names := make([]string, len(registry))
	for i, m := range registry {
		names[i] = m.Table
	}
	return names
}
