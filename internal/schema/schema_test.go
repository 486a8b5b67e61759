package schema_test

import (
	"context"
	"path/filepath"
	"testing"

	"imdb-pump/internal/dialect"
	"imdb-pump/internal/schema"
	"imdb-pump/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := schema.Registry()
	require.Equal(t, []string{"people", "titles", "akas", "crew", "episodes", "ratings"}, schema.TableNames())
	require.Equal(t, []string{
		"name.basics.tsv.gz",
		"title.basics.tsv.gz",
		"title.akas.tsv.gz",
		"title.principals.tsv.gz",
		"title.episode.tsv.gz",
		"title.ratings.tsv.gz",
	}, schema.Files())

	for _, m := range reg {
		require.NoError(t, m.Validate(), m.Table)
	}

	ratings := reg[5]
	require.Equal(t, []string{"tconst", "averageRating", "numVotes"}, ratings.SourceFields())
	require.Equal(t, []string{"title_id", "rating", "votes"}, ratings.ColumnNames())
	require.Equal(t, dialect.Real, ratings.Columns[1].Type)

	require.Equal(t, "episode_number", reg[4].Columns[3].Name)
}

func TestRegistryReturnsCopy(t *testing.T) {
	reg := schema.Registry()
	reg[0].Table = "changed"
	reg[0].Columns[0].Name = "changed"

	again := schema.Registry()
	require.Equal(t, "people", again[0].Table)
	require.Equal(t, "person_id", again[0].Columns[0].Name)
}

func TestValidate(t *testing.T) {
	col := schema.Column{Source: "a", Name: "a", Type: dialect.Text}
	tests := []struct {
		name string
		m    schema.TableMapping
	}{
		{"BadTable", schema.TableMapping{File: "f", Table: "drop table", Columns: []schema.Column{col}}},
		{"NoFile", schema.TableMapping{Table: "t", Columns: []schema.Column{col}}},
		{"NoColumns", schema.TableMapping{File: "f", Table: "t"}},
		{"BadColumn", schema.TableMapping{File: "f", Table: "t", Columns: []schema.Column{{Source: "a", Name: `a"b`}}}},
		{"Duplicate", schema.TableMapping{File: "f", Table: "t", Columns: []schema.Column{col, col}}},
		{"CompositeKey", schema.TableMapping{File: "f", Table: "t", Columns: []schema.Column{
			{Source: "a", Name: "a", PrimaryKey: true},
			{Source: "b", Name: "b", PrimaryKey: true},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.m.Validate())
		})
	}
}

func TestCreateTableSQL(t *testing.T) {
	m := schema.TableMapping{
		File:  "f.tsv",
		Table: "t",
		Columns: []schema.Column{
			{Source: "id", Name: "id", Type: dialect.Text, PrimaryKey: true, Unique: true, Nullable: true},
			{Source: "code", Name: "code", Type: dialect.Text, Unique: true},
			{Source: "n", Name: "n", Type: dialect.Integer, Nullable: true, Indexed: true},
			{Source: "r", Name: "r", Type: dialect.Real, Nullable: true},
		},
	}

	got, err := schema.CreateTableSQL(&dialect.SQLiteDialect{}, m)
	require.NoError(t, err)
	require.Equal(t, "CREATE TABLE \"t\" (\n"+
		"  \"id\" TEXT PRIMARY KEY NOT NULL,\n"+
		"  \"code\" TEXT UNIQUE NOT NULL,\n"+
		"  \"n\" INTEGER,\n"+
		"  \"r\" REAL\n"+
		")", got)
}

func TestCreateIndexSQL(t *testing.T) {
	m := schema.TableMapping{
		File:  "f.tsv",
		Table: "t",
		Columns: []schema.Column{
			{Source: "id", Name: "id", Type: dialect.Text, PrimaryKey: true, Indexed: true},
			{Source: "code", Name: "code", Type: dialect.Text, Unique: true, Indexed: true},
			{Source: "name", Name: "name", Type: dialect.Text, Indexed: true, Nullable: true},
			{Source: "n", Name: "n", Type: dialect.Integer, Nullable: true},
		},
	}

	got, err := schema.CreateIndexSQL(&dialect.SQLiteDialect{}, m)
	require.NoError(t, err)
	require.Equal(t, []string{`CREATE INDEX "ix_t_name" ON "t" ("name")`}, got)

	require.Equal(t, []schema.Index{{Table: "t", Name: "ix_t_name"}}, schema.ExpectedIndexes([]schema.TableMapping{m}))
}

func TestExpectedIndexesForRegistry(t *testing.T) {
	var names []string
	for _, ix := range schema.ExpectedIndexes(schema.Registry()) {
		names = append(names, ix.Name)
	}
	require.Equal(t, []string{
		"ix_people_name",
		"ix_titles_type",
		"ix_titles_primary_title",
		"ix_titles_original_title",
		"ix_akas_title_id",
		"ix_akas_title",
		"ix_crew_title_id",
		"ix_crew_person_id",
		"ix_episodes_episode_title_id",
		"ix_episodes_show_title_id",
	}, names)
}

func TestBuilder(t *testing.T) {
	ctx := context.Background()
	d := &dialect.SQLiteDialect{}
	st, err := store.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "schema.db"), d)
	require.NoError(t, err)
	defer st.Close()

	reg := schema.Registry()
	b := schema.NewBuilder(d, st, zerolog.Nop())
	require.NoError(t, b.CreateTables(ctx, reg))

	tables, err := schema.Tables(ctx, st, d)
	require.NoError(t, err)
	require.ElementsMatch(t, schema.TableNames(), tables)

	indexes, err := schema.Indexes(ctx, st, d)
	require.NoError(t, err)
	require.Empty(t, indexes)

	require.NoError(t, b.CreateIndices(ctx, reg))
	require.False(t, st.InTx())

	indexes, err = schema.Indexes(ctx, st, d)
	require.NoError(t, err)
	require.ElementsMatch(t, schema.ExpectedIndexes(reg), indexes)

	// Creating the tables twice fails.
	require.Error(t, b.CreateTables(ctx, reg))
}
