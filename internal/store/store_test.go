package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inferc/internal/analyzer"
	"github.com/roach88/inferc/internal/ast"
	"github.com/roach88/inferc/internal/testutil"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func failingResult() analyzer.Result {
	return analyzer.Result{
		Pass: false,
		Diagnostics: []analyzer.Diagnostic{
			{
				Severity: analyzer.SeverityWarning,
				Code:     analyzer.CodeDuplicateEnvironment,
				Message:  `Found duplicate environment field with name "k".`,
				Group:    "G",
				Pos:      ast.Pos{File: "rules.cue", Line: 4, Column: 3},
			},
			{
				Severity:  analyzer.SeverityError,
				Code:      analyzer.CodeInvalidProposition,
				Message:   `Invalid proposition target type in inference "R".`,
				Group:     "G",
				Inference: "R",
			},
		},
	}
}

// pragma reads a single PRAGMA value.
func pragma(t *testing.T, s *Store, name string) string {
	t.Helper()
	var value string
	require.NoError(t, s.DB().QueryRow("PRAGMA "+name).Scan(&value))
	return value
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	assert.Equal(t, "wal", pragma(t, s, "journal_mode"))
	assert.Equal(t, "1", pragma(t, s, "foreign_keys"))
	assert.Equal(t, "1", pragma(t, s, "user_version"))
}

func TestOpenCreatesCodeIndex(t *testing.T) {
	s := createTestStore(t)

	var name string
	require.NoError(t, s.DB().QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_diagnostics_code'`).Scan(&name))
	assert.Equal(t, "idx_diagnostics_code", name)
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.DB().Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaTooNew))
	assert.Contains(t, err.Error(), "v99, supported v1")
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.WriteRun(context.Background(), NewRun("m", "a.cue", "d", analyzer.Options{}, analyzer.Result{Pass: true})))
	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(1), runs[0].Seq)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.WriteRun(context.Background(), NewRun("run-1", "a.cue", "d1", analyzer.Options{}, analyzer.Result{Pass: true})))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	run, err := s2.ReadRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.True(t, run.Pass)
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	opts := analyzer.Options{WarningsAsErrors: true}
	run := NewRun("run-1", "rules.cue", "abc123", opts, failingResult())
	require.NoError(t, s.WriteRun(ctx, run))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.Seq)
	assert.Equal(t, "rules.cue", got.Source)
	assert.Equal(t, "abc123", got.Digest)
	assert.Equal(t, analyzer.Version, got.AnalyzerVersion)
	assert.Equal(t, RunOptions{WarningsAsErrors: true}, got.Options)
	assert.False(t, got.Pass)
	assert.Equal(t, failingResult().Diagnostics, got.Diagnostics)
}

func TestWriteRunIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := NewRun("run-1", "rules.cue", "abc", analyzer.Options{}, failingResult())
	require.NoError(t, s.WriteRun(ctx, run))
	require.NoError(t, s.WriteRun(ctx, run))

	var runs, diags int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM diagnostics`).Scan(&diags))
	assert.Equal(t, 1, runs)
	assert.Equal(t, 2, diags)
}

func TestReadRunNotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestListRunsNewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.WriteRun(ctx, NewRun(id, "rules.cue", "d", analyzer.Options{}, analyzer.Result{Pass: true})))
	}

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, int64(3), all[0].Seq)
	assert.NotNil(t, all[0].Diagnostics)

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListRunsEmpty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestRunsForDigest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, NewRun("r1", "a.cue", "one", analyzer.Options{}, failingResult())))
	require.NoError(t, s.WriteRun(ctx, NewRun("r2", "b.cue", "two", analyzer.Options{}, analyzer.Result{Pass: true})))
	require.NoError(t, s.WriteRun(ctx, NewRun("r3", "a.cue", "one", analyzer.Options{BailOnFirstError: true}, failingResult())))

	runs, err := s.RunsForDigest(ctx, "one")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r1", runs[0].ID)
	assert.Equal(t, "r3", runs[1].ID)
	assert.True(t, runs[1].Options.BailOnFirstError)
	assert.Len(t, runs[1].Diagnostics, 2)
}

func TestRunsWithCode(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, NewRun("r1", "a.cue", "one", analyzer.Options{}, failingResult())))
	require.NoError(t, s.WriteRun(ctx, NewRun("r2", "b.cue", "two", analyzer.Options{}, analyzer.Result{Pass: true})))
	require.NoError(t, s.WriteRun(ctx, NewRun("r3", "a.cue", "one", analyzer.Options{}, failingResult())))

	runs, err := s.RunsWithCode(ctx, analyzer.CodeInvalidProposition, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r3", runs[0].ID)
	assert.Equal(t, "r1", runs[1].ID)
	assert.Len(t, runs[0].Diagnostics, 2)

	runs, err = s.RunsWithCode(ctx, analyzer.CodeInvalidProposition, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r3", runs[0].ID)

	runs, err = s.RunsWithCode(ctx, analyzer.CodeDuplicateGroup, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NotNil(t, runs)
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()

	assert.NotEqual(t, a, b)
	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestMarshalOptionsCanonical(t *testing.T) {
	got, err := marshalOptions(RunOptions{BailOnFirstError: true})
	require.NoError(t, err)
	assert.Equal(t, `{"bail_on_first_error":true,"warnings_as_errors":false}`, got)

	back, err := unmarshalOptions(got)
	require.NoError(t, err)
	assert.Equal(t, RunOptions{BailOnFirstError: true}, back)
}

func TestRecordAnalyzedModule(t *testing.T) {
	m := testutil.MustCompile(t, `groups: [{
	name: "MyGroup"
	inferences: [{name: "Unit", proposition: {computed: "Unit"}}]
}, {
	name: "MyGroup"
	inferences: [{name: "Unit", proposition: {computed: "Unit"}}]
}]`)
	opts := analyzer.Options{Logger: testutil.DiscardLogger()}
	res := analyzer.Analyze(m, opts)
	require.False(t, res.Pass)

	s := createTestStore(t)
	ctx := context.Background()
	digest := ast.MustModuleDigest(m)
	require.NoError(t, s.WriteRun(ctx, NewRun("analyzed", "test.cue", digest, opts, res)))

	got, err := s.ReadRun(ctx, "analyzed")
	require.NoError(t, err)
	assert.Equal(t, digest, got.Digest)
	assert.Equal(t, analyzer.Version, got.AnalyzerVersion)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, analyzer.CodeDuplicateGroup, got.Diagnostics[0].Code)
	assert.Equal(t, `Found multiple inference group with name "MyGroup".`, got.Diagnostics[0].Message)
	assert.Equal(t, "test.cue", got.Diagnostics[0].Pos.File)
}
