package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestNewLoadsBuiltinLexicon(t *testing.T) {
	tax := New()

	assert.Len(t, tax.Categories(), 7)
	assert.NotEmpty(t, tax.SensitivePhrases())
	assert.NotEmpty(t, tax.UrgencyPhrases())

	inv := tax.Category("investment")
	require.NotNil(t, inv)
	assert.Equal(t, float64(30), inv.Weight)
	assert.Contains(t, inv.Phrases, "理财")
}

func TestCategoriesPreserveLoadOrder(t *testing.T) {
	tax := New()

	ids := []string{}
	for _, c := range tax.Categories() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"divination", "investment", "shopping", "romance", "identity", "parttime", "charity"}, ids)
}

func TestAddCustomPhrases(t *testing.T) {
	tax := New()

	before := len(tax.Category("romance").Phrases)
	require.NoError(t, tax.AddCustomPhrases("romance", "杀猪盘", "网恋"))
	assert.Len(t, tax.Category("romance").Phrases, before+2)

	err := tax.AddCustomPhrases("no-such-category", "x")
	assert.Error(t, err)
}

func TestLoadDirMissingDirectoryKeepsBuiltins(t *testing.T) {
	tax := New()

	require.NoError(t, tax.LoadDir(filepath.Join(t.TempDir(), "absent"), quietLogger()))
	assert.Len(t, tax.Categories(), 7)
}

func TestLoadDirAddsAndOverrides(t *testing.T) {
	dir := t.TempDir()

	custom := `id: crypto
name: crypto fraud
weight: 28
phrases:
  - 空投
  - 挖矿
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crypto.yaml"), []byte(custom), 0o644))

	override := `id: charity
name: fake charity fraud
weight: 45
phrases:
  - 募捐
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "charity.yml"), []byte(override), 0o644))

	tax := New()
	require.NoError(t, tax.LoadDir(dir, quietLogger()))

	assert.Len(t, tax.Categories(), 8)

	crypto := tax.Category("crypto")
	require.NotNil(t, crypto)
	assert.Equal(t, []string{"空投", "挖矿"}, crypto.Phrases)

	charity := tax.Category("charity")
	assert.Equal(t, float64(45), charity.Weight)
	assert.Equal(t, []string{"募捐"}, charity.Phrases)
}

func TestLoadDirSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("{not yaml"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "noid.yaml"), []byte("name: missing id\nphrases: [x]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.yaml"), []byte("id: empty\nphrases: []"), 0o644))

	tax := New()
	require.NoError(t, tax.LoadDir(dir, quietLogger()))
	assert.Len(t, tax.Categories(), 7)
}

func TestLoadFileDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: minimal\nphrases: [something]"), 0o644))

	c, err := loadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", c.Name)
	assert.Equal(t, float64(10), c.Weight)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	tax := New()
	require.NoError(t, tax.AddCustomPhrases("investment", "元宇宙理财"))
	require.NoError(t, tax.Save(dir, "investment"))

	reloaded := New()
	require.NoError(t, reloaded.LoadDir(dir, quietLogger()))
	assert.Contains(t, reloaded.Category("investment").Phrases, "元宇宙理财")
}

func TestSaveUnknownCategory(t *testing.T) {
	tax := New()
	assert.Error(t, tax.Save(t.TempDir(), "nope"))
}

func TestStats(t *testing.T) {
	tax := New()

	stats := tax.Stats()
	require.Len(t, stats, 7)
	assert.Equal(t, "divination", stats[0].ID)
	assert.Greater(t, stats[0].PhraseCount, 0)
}
