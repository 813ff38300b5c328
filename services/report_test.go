package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodintel/analytics"
	"foodintel/apperr"
	"foodintel/database"
	"foodintel/models"
)

func newReports(gen TextGenerator, archive ReportArchive) (*ReportService, *fakeShopping) {
	shop := &fakeShopping{items: []models.RawListing{
		rawListing("몬스터 망고", "24000", "몬스터", ""),
		rawListing("레드불 망고", "18000", "레드불", ""),
	}}
	svc := NewReportService(ReportDeps{
		Market:    newMarket(shop, nil),
		Generator: gen,
		Archive:   archive,
		Language:  "Korean",
	})
	return svc, shop
}

func TestBuildStrategyPrompt(t *testing.T) {
	listings := analytics.NormalizeListings([]models.RawListing{
		rawListing("몬스터 망고", "24000", "몬스터", ""),
		rawListing("몬스터 울트라", "18000", "몬스터", ""),
		rawListing("몬스터 시트라", "21000", "몬스터", ""),
		rawListing("레드불 트로피컬", "20000", "레드불", ""),
		rawListing("레드불 오리지널", "22000", "레드불", ""),
	}, analytics.NormalizeOptions{})
	summary, err := analytics.ComputeMarketSummary(listings, analytics.Thresholds{A: 50, B: 30})
	require.NoError(t, err)

	a := models.MarketAnalysis{
		Keyword: "몬스터 망고",
		Trend: models.TrendSection{State: models.StateOK, Summaries: []models.TrendSummary{{
			GroupName:    "몬스터",
			Recent:       []float64{10, 20, 30},
			RecentGrowth: models.DefinedValue(200),
		}}},
		Shopping: models.ShoppingSection{State: models.StateOK, Summary: &summary},
	}

	p := BuildStrategyPrompt(a, "Korean")
	assert.Contains(t, p, "검색 키워드: 몬스터 망고")
	assert.Contains(t, p, "최근 값 10.0, 20.0, 30.0")
	assert.Contains(t, p, "최근 성장률 200.0%")
	assert.Contains(t, p, "1. 몬스터 (3건, 60.0%)")
	assert.Contains(t, p, "평균가격: 21000원")
	assert.Contains(t, p, "2. 레드불 (2건, 40.0%)")
	assert.NotContains(t, p, "6000.0%")
	assert.Contains(t, p, fmt.Sprintf("기회 점수: %.1f (전략 등급 %s)", summary.OpportunityScore, summary.StrategyGrade))
	assert.Contains(t, p, "신규 진입 전략")
	assert.Contains(t, p, "Write the report in Korean.")
}

func TestBuildStrategyPromptMarksMissingData(t *testing.T) {
	a := models.MarketAnalysis{
		Keyword: "망고",
		Trend: models.TrendSection{State: models.StateOK, Summaries: []models.TrendSummary{{
			GroupName:    "망고",
			RecentGrowth: models.Undefined("need 3 monthly samples"),
		}}},
		Shopping: models.ShoppingSection{State: models.StateDisabled, Message: "commerce search is not configured"},
	}
	p := BuildStrategyPrompt(a, "")
	assert.Contains(t, p, "최근 값 없음")
	assert.Contains(t, p, "산출 불가 (need 3 monthly samples)")
	assert.Contains(t, p, "사용 불가 (disabled) commerce search is not configured")
	assert.NotContains(t, p, "Write the report in")
}

func TestGenerateStrategyReportArchives(t *testing.T) {
	gen := &fakeGenerator{text: "보고서 본문"}
	archive := &fakeArchive{}
	svc, _ := newReports(gen, archive)

	rep, err := svc.GenerateStrategyReport(context.Background(), mangoRequest)
	require.NoError(t, err)
	assert.Equal(t, "보고서 본문", rep.Body)
	assert.Equal(t, "test-model", rep.Model)
	assert.True(t, rep.Archived)
	assert.Equal(t, "rep-1", rep.ID)

	require.Len(t, archive.reports, 1)
	assert.Equal(t, models.ReportKindStrategy, archive.reports[0].Kind)
	assert.Equal(t, "몬스터 망고", archive.reports[0].Keyword)
	assert.Contains(t, gen.prompt, "몬스터 망고")
}

func TestGenerateStrategyReportWithoutGenerator(t *testing.T) {
	svc, shop := newReports(nil, nil)
	_, err := svc.GenerateStrategyReport(context.Background(), mangoRequest)
	assert.True(t, apperr.Is(err, apperr.KindConfig))
	assert.Zero(t, shop.calls)
}

func TestGenerateStrategyReportKeepsReportWhenArchiveFails(t *testing.T) {
	svc, _ := newReports(&fakeGenerator{text: "본문"}, &fakeArchive{saveErr: errors.New("db down")})
	rep, err := svc.GenerateStrategyReport(context.Background(), mangoRequest)
	require.NoError(t, err)
	assert.False(t, rep.Archived)
	assert.Empty(t, rep.ID)
	assert.Equal(t, "본문", rep.Body)
}

func TestGenerateStrategyReportPropagatesGeneratorError(t *testing.T) {
	svc, _ := newReports(&fakeGenerator{err: apperr.Provider("gemini.Generate", "quota exceeded")}, nil)
	_, err := svc.GenerateStrategyReport(context.Background(), mangoRequest)
	assert.True(t, apperr.Is(err, apperr.KindProvider))
}

func TestGenerateStrategyReportNeedsSomeData(t *testing.T) {
	svc := NewReportService(ReportDeps{
		Market:    newMarket(nil, nil),
		Generator: &fakeGenerator{text: "x"},
	})
	_, err := svc.GenerateStrategyReport(context.Background(), mangoRequest)
	assert.True(t, apperr.Is(err, apperr.KindInsufficientData))
}

func TestGenerateDevelopmentDraft(t *testing.T) {
	gen := &fakeGenerator{text: "초안"}
	archive := &fakeArchive{}
	svc, _ := newReports(gen, archive)

	rep, err := svc.GenerateDevelopmentDraft(context.Background(), models.DevReportForm{
		Category: "건강기능성음료",
		Flavor:   "망고",
		Brand:    "몬스터",
		Version:  "v1.0",
		Concept:  "저당 에너지음료",
	})
	require.NoError(t, err)
	assert.Equal(t, "초안", rep.Body)
	assert.Contains(t, gen.prompt, "제품명: 몬스터 망고, 계열: 건강기능성음료")
	assert.Contains(t, gen.prompt, "컨셉: 저당 에너지음료")
	assert.Contains(t, gen.prompt, "향후 과제")

	require.Len(t, archive.reports, 1)
	assert.Equal(t, models.ReportKindDevelopment, archive.reports[0].Kind)
	assert.Equal(t, "몬스터 망고 신제품 개발 보고서 v1.0", archive.reports[0].Title)
}

func TestListReports(t *testing.T) {
	svc, _ := newReports(nil, nil)
	items, err := svc.ListReports(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "몬스터 망고", items[0].Product)

	archive := &fakeArchive{}
	svc, _ = newReports(&fakeGenerator{text: "본문"}, archive)
	_, err = svc.GenerateStrategyReport(context.Background(), mangoRequest)
	require.NoError(t, err)

	items, err = svc.ListReports(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "rep-1", items[0].ID)
	assert.Equal(t, "2025-03-01", items[0].CreatedAt)
}

func TestExportReport(t *testing.T) {
	archive := &fakeArchive{}
	svc, _ := newReports(&fakeGenerator{text: "본문 내용"}, archive)
	rep, err := svc.GenerateStrategyReport(context.Background(), mangoRequest)
	require.NoError(t, err)

	name, body, err := svc.ExportReport(context.Background(), rep.ID)
	require.NoError(t, err)
	assert.Equal(t, "report-rep-1.txt", name)
	assert.True(t, strings.HasPrefix(string(body), "몬스터 망고 시장 전략 보고서\n"))
	assert.Contains(t, string(body), "본문 내용")

	_, _, err = svc.ExportReport(context.Background(), "missing")
	assert.ErrorIs(t, err, database.ErrReportNotFound)

	svc, _ = newReports(nil, nil)
	_, _, err = svc.ExportReport(context.Background(), "rep-1")
	assert.True(t, apperr.Is(err, apperr.KindConfig))
}
