package roster

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockRosterRepo struct {
	GetByPositionFunc func(ctx context.Context, pos int) (*domain.Member, error)
	GetByNameFunc     func(ctx context.Context, name string) (*domain.Member, error)
	ListFunc          func(ctx context.Context, includeInactive bool) ([]domain.Member, error)
	CreateFunc        func(ctx context.Context, m *domain.Member) (*domain.Member, error)
	UpsertFunc        func(ctx context.Context, m *domain.Member) (*domain.Member, error)
	UpdateFunc        func(ctx context.Context, m *domain.Member) (*domain.Member, error)
}

func (m *mockRosterRepo) GetByPosition(ctx context.Context, pos int) (*domain.Member, error) {
	return m.GetByPositionFunc(ctx, pos)
}

func (m *mockRosterRepo) GetByName(ctx context.Context, name string) (*domain.Member, error) {
	return m.GetByNameFunc(ctx, name)
}

func (m *mockRosterRepo) List(ctx context.Context, includeInactive bool) ([]domain.Member, error) {
	return m.ListFunc(ctx, includeInactive)
}

func (m *mockRosterRepo) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	return m.CreateFunc(ctx, member)
}

func (m *mockRosterRepo) Upsert(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	return m.UpsertFunc(ctx, member)
}

func (m *mockRosterRepo) Update(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	return m.UpdateFunc(ctx, member)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestService(repo *mockRosterRepo) *Service {
	return NewService(slog.Default(), repo)
}

func member(pos int, name string, active bool) domain.Member {
	return domain.Member{
		BitPosition: pos,
		NamePrimary: name,
		Active:      active,
	}
}

func ptrString(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Register tests
// ---------------------------------------------------------------------------

func TestService_Register_PicksLowestFreePosition(t *testing.T) {
	t.Parallel()

	var created *domain.Member
	repo := &mockRosterRepo{
		ListFunc: func(_ context.Context, includeInactive bool) ([]domain.Member, error) {
			assert.True(t, includeInactive, "inactive members must still occupy positions")
			return []domain.Member{
				member(0, "alice", true),
				member(1, "bob", false),
				member(3, "carol", true),
			}, nil
		},
		CreateFunc: func(_ context.Context, m *domain.Member) (*domain.Member, error) {
			created = m
			return m, nil
		},
	}

	svc := newTestService(repo)
	got, err := svc.Register(context.Background(), RegisterInput{NamePrimary: "  dave ", Glyph: "🟢"})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 2, created.BitPosition, "position 2 is the lowest gap")
	assert.Equal(t, "dave", got.NamePrimary)
	assert.True(t, got.Active)
}

func TestService_Register_CapacityExceeded(t *testing.T) {
	t.Parallel()

	full := make([]domain.Member, 0, domain.MaxRosterSize)
	for p := 0; p < domain.MaxRosterSize; p++ {
		full = append(full, member(p, "p", p%2 == 0))
	}
	repo := &mockRosterRepo{
		ListFunc: func(_ context.Context, _ bool) ([]domain.Member, error) {
			return full, nil
		},
		CreateFunc: func(_ context.Context, _ *domain.Member) (*domain.Member, error) {
			t.Fatal("Create must not be called when the roster is full")
			return nil, nil
		},
	}

	svc := newTestService(repo)
	_, err := svc.Register(context.Background(), RegisterInput{NamePrimary: "ivan"})

	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestService_Register_EmptyName(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockRosterRepo{})
	_, err := svc.Register(context.Background(), RegisterInput{NamePrimary: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_RegisterAt_OutOfRange(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockRosterRepo{})

	_, err := svc.RegisterAt(context.Background(), 8, RegisterInput{NamePrimary: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RegisterAt(context.Background(), -1, RegisterInput{NamePrimary: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_RegisterAt_OverwritesPosition(t *testing.T) {
	t.Parallel()

	repo := &mockRosterRepo{
		UpsertFunc: func(_ context.Context, m *domain.Member) (*domain.Member, error) {
			assert.Equal(t, 5, m.BitPosition)
			assert.True(t, m.Active)
			return m, nil
		},
	}

	svc := newTestService(repo)
	got, err := svc.RegisterAt(context.Background(), 5, RegisterInput{NamePrimary: "erin", NameAlias: "e"})

	require.NoError(t, err)
	assert.Equal(t, "erin", got.NamePrimary)
}

// ---------------------------------------------------------------------------
// Update / Activate / Deactivate tests
// ---------------------------------------------------------------------------

func TestService_Update_PartialEdit(t *testing.T) {
	t.Parallel()

	existing := member(1, "bob", true)
	existing.NameAlias = "bobby"
	existing.Glyph = "🔵"

	repo := &mockRosterRepo{
		GetByPositionFunc: func(_ context.Context, pos int) (*domain.Member, error) {
			require.Equal(t, 1, pos)
			cp := existing
			return &cp, nil
		},
		UpdateFunc: func(_ context.Context, m *domain.Member) (*domain.Member, error) {
			return m, nil
		},
	}

	svc := newTestService(repo)
	got, err := svc.Update(context.Background(), 1, UpdateInput{
		NameAlias: ptrString(""),
		Glyph:     ptrString("🟣"),
	})

	require.NoError(t, err)
	assert.Equal(t, "bob", got.NamePrimary, "nil field means no change")
	assert.Equal(t, "", got.NameAlias, "pointer to empty string clears the field")
	assert.Equal(t, "🟣", got.Glyph)
}

func TestService_Update_PrimaryNameCannotBeCleared(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockRosterRepo{})
	_, err := svc.Update(context.Background(), 0, UpdateInput{NamePrimary: ptrString("  ")})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Deactivate_AlreadyInactive(t *testing.T) {
	t.Parallel()

	repo := &mockRosterRepo{
		GetByPositionFunc: func(_ context.Context, _ int) (*domain.Member, error) {
			m := member(2, "carol", false)
			return &m, nil
		},
	}

	svc := newTestService(repo)
	_, err := svc.Deactivate(context.Background(), 2)

	assert.ErrorIs(t, err, domain.ErrAlreadyInState)
}

func TestService_Activate_FlipsState(t *testing.T) {
	t.Parallel()

	repo := &mockRosterRepo{
		GetByPositionFunc: func(_ context.Context, _ int) (*domain.Member, error) {
			m := member(2, "carol", false)
			return &m, nil
		},
		UpdateFunc: func(_ context.Context, m *domain.Member) (*domain.Member, error) {
			assert.True(t, m.Active)
			return m, nil
		},
	}

	svc := newTestService(repo)
	got, err := svc.Activate(context.Background(), 2)

	require.NoError(t, err)
	assert.True(t, got.Active)
}

// ---------------------------------------------------------------------------
// Mask helpers
// ---------------------------------------------------------------------------

func TestService_RegisteredMask(t *testing.T) {
	t.Parallel()

	repo := &mockRosterRepo{
		ListFunc: func(_ context.Context, _ bool) ([]domain.Member, error) {
			return []domain.Member{
				member(0, "alice", true),
				member(2, "bob", false),
			}, nil
		},
	}

	svc := newTestService(repo)
	mask, err := svc.RegisteredMask(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.MaskOf(0, 2), mask)
}

func TestService_NamesForMask_SkipsUnregisteredPositions(t *testing.T) {
	t.Parallel()

	repo := &mockRosterRepo{
		ListFunc: func(_ context.Context, _ bool) ([]domain.Member, error) {
			return []domain.Member{
				member(0, "alice", true),
				member(1, "bob", false),
			}, nil
		},
	}

	svc := newTestService(repo)
	names, err := svc.NamesForMask(context.Background(), domain.MaskOf(0, 1, 4))

	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, names, "deactivated members still resolve")
}

func TestService_NamesToMask_ReportsUnresolved(t *testing.T) {
	t.Parallel()

	alias := member(1, "Robert", true)
	alias.NameAlias = "Bob"
	repo := &mockRosterRepo{
		ListFunc: func(_ context.Context, _ bool) ([]domain.Member, error) {
			return []domain.Member{member(0, "Alice", true), alias}, nil
		},
	}

	svc := newTestService(repo)
	mask, unresolved, err := svc.NamesToMask(context.Background(), []string{"alice", "bob", "mallory"})

	require.NoError(t, err)
	assert.Equal(t, domain.MaskOf(0, 1), mask)
	assert.Equal(t, []string{"mallory"}, unresolved)
}

// ---------------------------------------------------------------------------
// Resolve tests
// ---------------------------------------------------------------------------

func TestService_Resolve_NumericIdentifier(t *testing.T) {
	t.Parallel()

	repo := &mockRosterRepo{
		GetByPositionFunc: func(_ context.Context, pos int) (*domain.Member, error) {
			assert.Equal(t, 3, pos)
			m := member(3, "carol", true)
			return &m, nil
		},
	}

	svc := newTestService(repo)
	got, err := svc.Resolve(context.Background(), " 3 ")

	require.NoError(t, err)
	assert.Equal(t, "carol", got.NamePrimary)
}

func TestService_Resolve_NameIdentifier(t *testing.T) {
	t.Parallel()

	repo := &mockRosterRepo{
		GetByNameFunc: func(_ context.Context, name string) (*domain.Member, error) {
			assert.Equal(t, "carol", name)
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestService(repo)
	_, err := svc.Resolve(context.Background(), "carol")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestService_Resolve_NumberOutsideRangeTreatedAsName(t *testing.T) {
	t.Parallel()

	repo := &mockRosterRepo{
		GetByNameFunc: func(_ context.Context, name string) (*domain.Member, error) {
			assert.Equal(t, "12", name)
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestService(repo)
	_, err := svc.Resolve(context.Background(), "12")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
