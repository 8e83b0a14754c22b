package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/propnet/internal/cli"
	"github.com/aretw0/propnet/internal/logging"
	"github.com/aretw0/propnet/pkg/config"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/dsl"
	"github.com/aretw0/propnet/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func converter(id string) cli.Problem {
	return cli.Problem{
		ID:        id,
		Constants: []string{"k32=32", "k9=9", "k5=5"},
		Constraints: []string{
			"difference f k32 t",
			"product c k9 c9",
			"product t k5 c9",
		},
	}
}

func newManager() *session.Manager {
	return session.NewManager(cli.NewSolver(config.Default(), logging.NewNop()))
}

func value(t *testing.T, sol *cli.Solution, name string) string {
	t.Helper()
	for _, c := range sol.Cells {
		if c.Name == name {
			return c.Value
		}
	}
	t.Fatalf("cell %q not in solution", name)
	return ""
}

func TestManager_IncrementalAssertions(t *testing.T) {
	mgr := newManager()
	ctx := context.Background()

	sol, err := mgr.Create(ctx, converter("temp"))
	require.NoError(t, err)
	assert.Equal(t, "temp", sol.NetworkID)
	assert.Equal(t, domain.StatusQuiescent, sol.Status)
	assert.Equal(t, "Nothing", value(t, sol, "c"))

	sol, err = mgr.Assert(ctx, "temp", []string{"f=212"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQuiescent, sol.Status)
	assert.Equal(t, "100", value(t, sol, "c"))

	got, err := mgr.Get(ctx, "temp")
	require.NoError(t, err)
	assert.Same(t, sol, got)

	// Consistent information is absorbed without change.
	sol, err = mgr.Assert(ctx, "temp", []string{"c=100"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQuiescent, sol.Status)

	sol, err = mgr.Assert(ctx, "temp", []string{"c=50"})
	require.NoError(t, err, "contradiction is a status, not an error")
	assert.Equal(t, domain.StatusHaltedContradiction, sol.Status)
	assert.Contains(t, sol.Contradictions, "c")
	assert.ErrorIs(t, sol.Err(), domain.ErrContradiction)
}

func TestManager_GeneratedID(t *testing.T) {
	mgr := newManager()

	sol, err := mgr.Create(context.Background(), converter(""))
	require.NoError(t, err)
	assert.NotEmpty(t, sol.NetworkID)
	assert.Equal(t, []string{sol.NetworkID}, mgr.List())
}

func TestManager_Errors(t *testing.T) {
	mgr := newManager()
	ctx := context.Background()

	_, err := mgr.Create(ctx, converter("dup"))
	require.NoError(t, err)

	_, err = mgr.Create(ctx, converter("dup"))
	assert.ErrorIs(t, err, session.ErrSessionExists)

	_, err = mgr.Assert(ctx, "missing", []string{"f=1"})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = mgr.Get(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	assert.ErrorIs(t, mgr.Delete(ctx, "missing"), session.ErrSessionNotFound)

	_, err = mgr.Assert(ctx, "dup", []string{"nope=1"})
	assert.ErrorIs(t, err, dsl.ErrUnknownName)

	_, err = mgr.Assert(ctx, "dup", []string{"k32=33"})
	assert.ErrorIs(t, err, domain.ErrConstantViolation)

	_, err = mgr.Assert(ctx, "dup", []string{"f"})
	assert.ErrorIs(t, err, cli.ErrSyntax)

	_, err = mgr.Create(ctx, cli.Problem{ID: "bad", Constraints: []string{"frobnicate a b"}})
	assert.True(t, cli.IsUsageError(err))
	assert.Equal(t, []string{"dup"}, mgr.List(), "failed creation keeps nothing")
}

func TestManager_Delete(t *testing.T) {
	mgr := newManager()
	ctx := context.Background()

	for _, id := range []string{"b", "a"} {
		_, err := mgr.Create(ctx, converter(id))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b"}, mgr.List())

	require.NoError(t, mgr.Delete(ctx, "a"))
	assert.Equal(t, []string{"b"}, mgr.List())

	_, err := mgr.Create(ctx, converter("a"))
	assert.NoError(t, err, "deleted ids can be reused")
}

func TestManager_ConcurrentAssertions(t *testing.T) {
	mgr := newManager()
	ctx := context.Background()
	_, err := mgr.Create(ctx, converter("shared"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Every caller asserts the same fact; serialized runs never overlap.
			sol, err := mgr.Assert(ctx, "shared", []string{"f=212"})
			assert.NoError(t, err)
			if sol != nil {
				assert.Equal(t, domain.StatusQuiescent, sol.Status)
			}
		}()
	}
	wg.Wait()

	sol, err := mgr.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "100", value(t, sol, "c"))
}

func TestManager_ConcurrentCreate(t *testing.T) {
	mgr := newManager()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := mgr.Create(ctx, converter("once")); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, session.ErrSessionExists)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}

func TestManager_Canceled(t *testing.T) {
	mgr := newManager()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mgr.Create(ctx, converter("canceled"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, mgr.List())
}
