package survey

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	rows, err := LoadJSON(strings.NewReader(`[{"model":"Civic","embX":1,"embY":2,"cluster":0,"STATE":"CA"}]`))
	require.NoError(t, err)

	want := []RawRecord{{"model": "Civic", "embX": 1.0, "embY": 2.0, "cluster": 0.0, "STATE": "CA"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("LoadJSON() mismatch (-want +got):\n%s", diff)
	}

	_, err = LoadJSON(strings.NewReader(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	doc := "\ufeffmodel, embX,embY,cluster,PRICE\n" +
		"Civic,1,2,0,\"31,000\"\n" +
		"Accord,3,4\n"
	rows, err := LoadCSV(strings.NewReader(doc))
	require.NoError(t, err)

	want := []RawRecord{
		{"model": "Civic", "embX": "1", "embY": "2", "cluster": "0", "PRICE": "31,000"},
		{"model": "Accord", "embX": "3", "embY": "4"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("LoadCSV() mismatch (-want +got):\n%s", diff)
	}

	res := Normalize(rows, NormalizeOptions{})
	assert.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Dropped)

	_, err = LoadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE respondents (model TEXT, embX REAL, embY REAL, cluster INTEGER, STATE TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO respondents VALUES ('Civic', 1.5, 2.5, 3, 'CA'), ('Accord', 0, 0, 1, NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	ctx := context.Background()
	rows, err := LoadSQLite(ctx, path, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Civic", rows[0]["model"])
	assert.Nil(t, rows[1]["STATE"])

	res := Normalize(rows, NormalizeOptions{})
	require.Len(t, res.Records, 2)
	assert.Equal(t, 3, res.Records[0].Cluster)
	assert.Equal(t, 2.5, res.Records[0].EmbY)

	viaFile, err := LoadFile(ctx, path, "respondents")
	require.NoError(t, err)
	assert.Len(t, viaFile, 2)

	_, err = LoadSQLite(ctx, path, "bad name; DROP")
	assert.Error(t, err)
	_, err = LoadSQLite(ctx, path, "missing_table")
	assert.Error(t, err)
	_, err = LoadSQLite(ctx, filepath.Join(t.TempDir(), "absent.db"), "")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "r.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"model":"A","embX":0,"embY":0,"cluster":1}]`), 0644))
	csvPath := filepath.Join(dir, "r.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("model,embX,embY,cluster\nA,0,0,1\n"), 0644))

	ctx := context.Background()
	for _, p := range []string{jsonPath, csvPath} {
		rows, err := LoadFile(ctx, p, "")
		require.NoError(t, err, p)
		assert.Len(t, rows, 1, p)
	}

	_, err := LoadFile(ctx, filepath.Join(dir, "r.xlsx"), "")
	assert.Error(t, err)
	_, err = LoadFile(ctx, filepath.Join(dir, "absent.json"), "")
	assert.Error(t, err)
}
