package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodintel/apperr"
	"foodintel/models"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"건강기능성음료", "탄산음료", "과일주스", "전통/차음료", "제로/저당음료"}, c.Names())

	juice, ok := c.Lookup("과일주스")
	require.True(t, ok)
	assert.Equal(t, 200.0, juice.StandardVolumeML)
}

func TestResolve(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		name   string
		sel    Selection
		flavor string
		brand  string
	}{
		{"choices", Selection{Category: "탄산음료", FlavorChoice: "콜라", BrandChoice: "펩시"}, "콜라", "펩시"},
		{"custom overrides choice", Selection{Category: "탄산음료", FlavorChoice: "콜라", FlavorCustom: " 유자 "}, "유자", ""},
		{"none choice clears", Selection{Category: "탄산음료", FlavorChoice: NoneChoice, BrandChoice: "환타"}, "", "환타"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := c.Resolve(tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.flavor, sc.Flavor)
			assert.Equal(t, tt.brand, sc.Brand)
			assert.Equal(t, 355.0, sc.StandardVolumeML)
		})
	}
}

func TestResolveRejects(t *testing.T) {
	c := MustDefault()

	_, err := c.Resolve(Selection{Category: "탄산음료", FlavorChoice: NoneChoice, BrandChoice: NoneChoice})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = c.Resolve(Selection{Category: "맥주", BrandChoice: "카스"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestKeywordGroups(t *testing.T) {
	c := MustDefault()
	groups := c.KeywordGroups(models.SearchContext{Category: "과일주스", Flavor: "망고", Brand: "델몬트"})

	require.Len(t, groups, 3)
	assert.Equal(t, "델몬트", groups[0].GroupName)
	assert.Equal(t, "망고", groups[1].GroupName)
	assert.Equal(t, "과일주스", groups[2].GroupName)
	assert.Equal(t, []string{"오렌지주스", "사과주스", "망고주스", "레몬주스"}, groups[2].Keywords)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	_, err := Parse([]byte("categories: []"))
	assert.Error(t, err)

	_, err = Parse([]byte("categories:\n  - name: a\n  - name: a\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = Parse([]byte("categories:\n  - flavors: [x]\n"))
	assert.Error(t, err)
}
