package instrument

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futures-data/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestCatalog(t *testing.T) {
	list := Catalog()
	require.Len(t, list, 42)
	assert.Equal(t, "RB.SHFE", list[0].Key().String())
	assert.Equal(t, model.Date(2009, 3, 27), list[0].ListingDate)

	list[0].Code = "XX"
	assert.Equal(t, "RB", Catalog()[0].Code, "Catalog must return a copy")
}

func TestLoadFileYAML(t *testing.T) {
	p := writeFile(t, "inst.yaml", `
- code: rb
  venue: shfe
- code: ZZ
  venue: DCE
  name: test product
  listing_date: "20200102"
- code: RB
  venue: SHFE
`)
	list, err := LoadFile(p)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "螺纹钢", list[0].Name)
	assert.Equal(t, model.Date(2009, 3, 27), list[0].ListingDate)
	assert.Equal(t, model.Date(2020, 1, 2), list[1].ListingDate)
	assert.Equal(t, "test product", list[1].Name)
}

func TestLoadFileText(t *testing.T) {
	p := writeFile(t, "inst.txt", "# comment\nCU.SHFE\n\nXY.CZCE,20190101,new\n")
	list, err := LoadFile(p)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.Date(1995, 4, 17), list[0].ListingDate)
	assert.Equal(t, model.InstrumentKey{Symbol: "XY", Venue: model.CZCE}, list[1].Key())
	assert.Equal(t, "new", list[1].Name)
}

func TestLoadFileJSONUnknownProductDefaults(t *testing.T) {
	p := writeFile(t, "inst.json", `[{"code":"QQ","venue":"GFEX"}]`)
	list, err := LoadFile(p)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, DefaultListingDate, list[0].ListingDate)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(writeFile(t, "inst.csv", "RB.SHFE"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "inst.txt", "RB.NOWHERE"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFileOrCatalog(t *testing.T) {
	list, err := LoadFileOrCatalog("")
	require.NoError(t, err)
	assert.Len(t, list, len(catalog))
	assert.Equal(t, model.Date(1992, 5, 13), Earliest(list))
}
