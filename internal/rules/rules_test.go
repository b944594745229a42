package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/troskovi/internal/model"
	"github.com/cleared-dev/troskovi/internal/store"
)

func settingsWith(rules ...model.ExclusionRule) model.Settings {
	return model.Settings{ExclusionRules: rules}
}

func TestShouldExclude(t *testing.T) {
	s := settingsWith(
		model.ExclusionRule{Pattern: "Air Serbia", Enabled: true},
		model.ExclusionRule{Pattern: "eurobank", Enabled: false},
	)
	tests := []struct {
		desc string
		want bool
	}{
		{"AIR SERBIA BEOGRAD", true},
		{"uplata air serbia", true},
		{"EUROBANK DIREKTNA", false},
		{"MAXI", false},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldExclude(tt.desc, s))
		})
	}
}

func TestShouldExclude_NoRules(t *testing.T) {
	assert.False(t, ShouldExclude("anything", model.Settings{}))
}

func TestShouldExclude_MonotonicInEnabledRules(t *testing.T) {
	descs := []string{"KUPOVINA EUR", "MAXI", "dušan kuzmanov uplata", "Eurobank"}
	base := Defaults()
	for i := range base.ExclusionRules {
		base.ExclusionRules[i].Enabled = false
	}

	prev := make([]bool, len(descs))
	for i := range base.ExclusionRules {
		base.ExclusionRules[i].Enabled = true
		for j, d := range descs {
			got := ShouldExclude(d, base)
			if prev[j] {
				assert.True(t, got, "enabling rule %d flipped %q back to false", i, d)
			}
			prev[j] = got
		}
	}
	assert.Equal(t, []bool{true, false, true, true}, prev)
}

func TestIsIncomeFromSource(t *testing.T) {
	src := model.IncomeSource{Name: "Zencode", Pattern: "ZenCode", Enabled: true}
	assert.True(t, IsIncomeFromSource("UPLATA ZENCODE DOO", src))
	assert.False(t, IsIncomeFromSource("UPLATA DRUGO", src))

	src.Enabled = false
	assert.False(t, IsIncomeFromSource("UPLATA ZENCODE DOO", src))
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.Len(t, d.ExclusionRules, 9)
	assert.Equal(t, "dušan kuzmanov", d.ExclusionRules[0].Pattern)
	assert.Equal(t, "160510010097766726", d.ExclusionRules[4].Pattern)
	require.Len(t, d.IncomeSources, 2)
	assert.Equal(t, model.IncomeSource{Name: "Lidija Preduzetnik", Pattern: "lidija kuzmanov preduzetnik", Enabled: true}, d.IncomeSources[1])
}

func newService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	svc, err := Load(context.Background(), mem, nil)
	require.NoError(t, err)
	return svc, mem
}

func reload(t *testing.T, mem *store.Memory) model.Settings {
	t.Helper()
	svc, err := Load(context.Background(), mem, nil)
	require.NoError(t, err)
	return svc.Settings()
}

func TestService_LoadDefaults(t *testing.T) {
	svc, _ := newService(t)
	assert.Equal(t, Defaults(), svc.Settings())
}

func TestService_LoadMalformed(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Set(context.Background(), store.KeySettings, []byte(`{"exclusionRules": 5}`)))
	svc, err := Load(context.Background(), mem, nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), svc.Settings())
}

func TestService_AddExclusion(t *testing.T) {
	svc, mem := newService(t)
	require.NoError(t, svc.AddExclusion(context.Background(), "  netflix "))

	got := reload(t, mem)
	last := got.ExclusionRules[len(got.ExclusionRules)-1]
	assert.Equal(t, model.ExclusionRule{Pattern: "netflix", Enabled: true}, last)
}

func TestService_AddExclusionEmpty(t *testing.T) {
	svc, _ := newService(t)
	assert.ErrorIs(t, svc.AddExclusion(context.Background(), " "), ErrEmptyPattern)
}

func TestService_ToggleExclusion(t *testing.T) {
	svc, mem := newService(t)
	require.NoError(t, svc.ToggleExclusion(context.Background(), 0))
	assert.False(t, reload(t, mem).ExclusionRules[0].Enabled)

	require.NoError(t, svc.ToggleExclusion(context.Background(), 0))
	assert.True(t, reload(t, mem).ExclusionRules[0].Enabled)
}

func TestService_DeleteExclusion(t *testing.T) {
	svc, mem := newService(t)
	require.NoError(t, svc.DeleteExclusion(context.Background(), 0))
	got := reload(t, mem)
	assert.Len(t, got.ExclusionRules, 8)
	assert.Equal(t, "dejan ljubinković", got.ExclusionRules[0].Pattern)
}

func TestService_IndexOutOfRange(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	assert.ErrorIs(t, svc.ToggleExclusion(ctx, 99), ErrIndexOutOfRange)
	assert.ErrorIs(t, svc.DeleteExclusion(ctx, -1), ErrIndexOutOfRange)
	assert.ErrorIs(t, svc.ToggleIncomeSource(ctx, 2), ErrIndexOutOfRange)
	assert.ErrorIs(t, svc.DeleteIncomeSource(ctx, 5), ErrIndexOutOfRange)
}

func TestService_IncomeSources(t *testing.T) {
	svc, mem := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddIncomeSource(ctx, "Freelance", "upwork"))
	require.NoError(t, svc.ToggleIncomeSource(ctx, 0))
	require.NoError(t, svc.DeleteIncomeSource(ctx, 1))

	got := reload(t, mem)
	require.Len(t, got.IncomeSources, 2)
	assert.Equal(t, "Zencode", got.IncomeSources[0].Name)
	assert.False(t, got.IncomeSources[0].Enabled)
	assert.Equal(t, "Freelance", got.IncomeSources[1].Name)
}

func TestService_AddIncomeSourceValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	assert.ErrorIs(t, svc.AddIncomeSource(ctx, "", "x"), ErrEmptyName)
	assert.ErrorIs(t, svc.AddIncomeSource(ctx, "x", " "), ErrEmptyPattern)
}

func TestService_SettingsIsCopy(t *testing.T) {
	svc, _ := newService(t)
	s := svc.Settings()
	s.ExclusionRules[0].Enabled = false
	assert.True(t, svc.Settings().ExclusionRules[0].Enabled)
}
