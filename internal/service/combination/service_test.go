package combination

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockCombinationRepo struct {
	GetFunc    func(ctx context.Context, mask domain.Mask) (*domain.CombinationLabel, error)
	ListFunc   func(ctx context.Context) ([]domain.CombinationLabel, error)
	UpsertFunc func(ctx context.Context, label domain.CombinationLabel) (*domain.CombinationLabel, error)
}

func (m *mockCombinationRepo) Get(ctx context.Context, mask domain.Mask) (*domain.CombinationLabel, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, mask)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCombinationRepo) List(ctx context.Context) ([]domain.CombinationLabel, error) {
	return m.ListFunc(ctx)
}

func (m *mockCombinationRepo) Upsert(ctx context.Context, label domain.CombinationLabel) (*domain.CombinationLabel, error) {
	return m.UpsertFunc(ctx, label)
}

type mockRosterService struct {
	MembersFunc func(ctx context.Context, includeInactive bool) ([]domain.Member, error)
}

func (m *mockRosterService) Members(ctx context.Context, includeInactive bool) ([]domain.Member, error) {
	return m.MembersFunc(ctx, includeInactive)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func threeMembers() *mockRosterService {
	return &mockRosterService{
		MembersFunc: func(_ context.Context, includeInactive bool) ([]domain.Member, error) {
			all := []domain.Member{
				{BitPosition: 0, NamePrimary: "alice", Glyph: "🔴", Active: true},
				{BitPosition: 1, NamePrimary: "bob", Glyph: "🔵", Active: false},
				{BitPosition: 2, NamePrimary: "carol", Glyph: "🟢", Active: true},
			}
			if includeInactive {
				return all, nil
			}
			active := make([]domain.Member, 0, len(all))
			for _, m := range all {
				if m.Active {
					active = append(active, m)
				}
			}
			return active, nil
		},
	}
}

func newTestService(overrides *mockCombinationRepo, roster *mockRosterService) *Service {
	return NewService(slog.Default(), overrides, roster)
}

// ---------------------------------------------------------------------------
// LabelFor tests
// ---------------------------------------------------------------------------

func TestService_LabelFor_ZeroMaskIsUnassignedSentinel(t *testing.T) {
	t.Parallel()

	overrides := &mockCombinationRepo{
		GetFunc: func(_ context.Context, _ domain.Mask) (*domain.CombinationLabel, error) {
			t.Fatal("override lookup must be skipped for mask 0")
			return nil, nil
		},
	}

	svc := newTestService(overrides, threeMembers())
	label, err := svc.LabelFor(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, UnassignedGlyph, label.Glyph)
	assert.Equal(t, UnassignedText, label.Text)
	assert.Empty(t, label.Names)
}

func TestService_LabelFor_OverrideWinsVerbatim(t *testing.T) {
	t.Parallel()

	overrides := &mockCombinationRepo{
		GetFunc: func(_ context.Context, mask domain.Mask) (*domain.CombinationLabel, error) {
			assert.Equal(t, domain.MaskOf(0, 1), mask)
			return &domain.CombinationLabel{Mask: mask, Glyph: "💗", Label: "pair shift"}, nil
		},
	}

	svc := newTestService(overrides, threeMembers())
	label, err := svc.LabelFor(context.Background(), domain.MaskOf(0, 1))

	require.NoError(t, err)
	assert.Equal(t, "💗", label.Glyph)
	assert.Equal(t, "pair shift", label.Text)
	assert.Equal(t, []string{"alice", "bob"}, label.Names)
}

func TestService_LabelFor_SingleBitUsesMemberGlyph(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockCombinationRepo{}, threeMembers())
	label, err := svc.LabelFor(context.Background(), domain.MaskOf(2))

	require.NoError(t, err)
	assert.Equal(t, "🟢", label.Glyph)
	assert.Equal(t, "carol", label.Text)
}

func TestService_LabelFor_MultiBitFallback(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockCombinationRepo{}, threeMembers())
	label, err := svc.LabelFor(context.Background(), domain.MaskOf(0, 1, 2))

	require.NoError(t, err)
	assert.Equal(t, "alice, bob, carol", label.Text, "names in ascending bit order")
	assert.NotEmpty(t, label.Glyph)
}

func TestService_LabelFor_InactiveMemberStillRenders(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockCombinationRepo{}, threeMembers())
	label, err := svc.LabelFor(context.Background(), domain.MaskOf(1))

	require.NoError(t, err)
	assert.Equal(t, "bob", label.Text)
}

// ---------------------------------------------------------------------------
// SetOverride / Legend tests
// ---------------------------------------------------------------------------

func TestService_SetOverride_RejectsZeroMask(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockCombinationRepo{}, threeMembers())
	_, err := svc.SetOverride(context.Background(), 0, "🔴", "x")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_SetOverride_RequiresGlyph(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockCombinationRepo{}, threeMembers())
	_, err := svc.SetOverride(context.Background(), domain.MaskOf(0), "  ", "x")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_SetOverride_Stores(t *testing.T) {
	t.Parallel()

	overrides := &mockCombinationRepo{
		UpsertFunc: func(_ context.Context, l domain.CombinationLabel) (*domain.CombinationLabel, error) {
			assert.Equal(t, domain.MaskOf(0, 2), l.Mask)
			assert.Equal(t, "🟡", l.Glyph)
			return &l, nil
		},
	}

	svc := newTestService(overrides, threeMembers())
	saved, err := svc.SetOverride(context.Background(), domain.MaskOf(0, 2), " 🟡 ", " both on ")

	require.NoError(t, err)
	assert.Equal(t, "both on", saved.Label)
}

func TestService_Legend_MembersThenMultiBitOverrides(t *testing.T) {
	t.Parallel()

	overrides := &mockCombinationRepo{
		ListFunc: func(_ context.Context) ([]domain.CombinationLabel, error) {
			return []domain.CombinationLabel{
				{Mask: domain.MaskOf(1), Glyph: "⚪", Label: "solo override"},
				{Mask: domain.MaskOf(0, 2), Glyph: "🟡", Label: ""},
			}, nil
		},
	}

	svc := newTestService(overrides, threeMembers())
	legend, err := svc.Legend(context.Background())

	require.NoError(t, err)
	// Two active members (bob is inactive) plus one multi-bit override.
	require.Len(t, legend, 3)
	assert.Equal(t, "alice", legend[0].Text)
	assert.Equal(t, "carol", legend[1].Text)
	assert.Equal(t, "alice, carol", legend[2].Text)
	assert.Equal(t, "🟡", legend[2].Glyph)
}
