package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
)

const bootstrapSkills = `system_id: savage-worlds
system_version: swade
source: core
items:
  - {id: notice, name: Notice, attribute: smarts, core: true}
  - {id: fighting, name: Fighting, attribute: agility}
`

const bootstrapEdges = `system_id: savage-worlds
system_version: swade
source: core
items:
  - {id: alertness, name: Alertness}
`

func writeContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skills.yaml"), []byte(bootstrapSkills), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edges.yaml"), []byte(bootstrapEdges), 0o600))
	return dir
}

func TestBootstrapInMemory(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	rt, err := Bootstrap(context.Background(), RuntimeConfig{CatalogDir: writeContent(t)}, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, rt.Close()) })

	require.Equal(t, "core", rt.Setting.ID)
	require.Equal(t, 2, rt.Catalog.Skills.Len())
	require.Empty(t, rt.Warnings)
	require.Equal(t, 1, logs.FilterMessage("sheet runtime ready").Len())

	id, _, err := rt.Service.Create(context.Background(), func(c *character.Aggregate) error {
		c.AddEdge("alertness")
		return nil
	})
	require.NoError(t, err)
	require.Error(t, rt.Service.Save(context.Background(), id), "save needs a store")
}

func TestBootstrapWithSettingAndStore(t *testing.T) {
	dir := writeContent(t)
	settingPath := filepath.Join(dir, "setting.yaml")
	require.NoError(t, os.WriteFile(settingPath, []byte("id: gritty\nflags: [sanity]\nstarting_rank: seasoned\n"), 0o600))

	rt, err := Bootstrap(context.Background(), RuntimeConfig{
		CatalogDir:  dir,
		SettingPath: settingPath,
		DBPath:      filepath.Join(t.TempDir(), "sheets.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, rt.Close()) })

	require.Equal(t, "gritty", rt.Setting.ID)
	require.True(t, rt.Setting.Has(catalog.FlagSanity))
	require.Equal(t, rules.RankSeasoned, rt.Setting.StartingRank)

	ctx := context.Background()
	id, _, err := rt.Service.Create(ctx, func(c *character.Aggregate) error {
		c.Name = "Vera"
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, rt.Service.Save(ctx, id))
	rt.Service.Close(id)

	issues, err := rt.Service.Open(ctx, id)
	require.NoError(t, err)
	require.Empty(t, issues)
}

func TestBootstrapRejectsMissingCatalog(t *testing.T) {
	_, err := Bootstrap(context.Background(), RuntimeConfig{CatalogDir: filepath.Join(t.TempDir(), "missing")}, nil)
	require.Error(t, err)
}

func TestBootstrapRejectsBadSetting(t *testing.T) {
	dir := writeContent(t)
	settingPath := filepath.Join(dir, "setting.yaml")
	require.NoError(t, os.WriteFile(settingPath, []byte("flags: [dragons]\n"), 0o600))

	_, err := Bootstrap(context.Background(), RuntimeConfig{CatalogDir: dir, SettingPath: settingPath}, nil)
	require.Error(t, err)
}
