package services

import (
	"context"
	"fmt"
	"strings"

	"foodintel/apperr"
	"foodintel/logger"
	"foodintel/models"
)

const maxRankedBrands = 5

// sampleReports is the recent-reports table shown when no archive is
// configured.
var sampleReports = []models.ReportListItem{
	{Product: "몬스터 망고", Version: "v2.0", Manager: "김개발", CreatedAt: "2025-01-15", Status: "승인 대기"},
	{Product: "코카콜라 제로", Version: "최종", Manager: "이연구", CreatedAt: "2025-01-10", Status: "완료"},
	{Product: "홍차 라떼", Version: "v1.1", Manager: "박기획", CreatedAt: "2024-12-20", Status: "완료"},
	{Product: "델몬트 타트체리", Version: "최종", Manager: "최분석", CreatedAt: "2024-12-05", Status: "완료"},
	{Product: "닥터유 베리", Version: "v1.0", Manager: "정연구", CreatedAt: "2024-11-28", Status: "개발 중"},
}

// ReportDeps are the collaborators of a ReportService. Generator and Archive
// may be nil.
type ReportDeps struct {
	Market    *MarketService
	Generator TextGenerator
	Archive   ReportArchive
	Language  string
	Logger    *logger.Logger
}

// ReportService writes and archives the generated reports.
type ReportService struct {
	market   *MarketService
	gen      TextGenerator
	archive  ReportArchive
	language string
	log      *logger.Logger
}

// NewReportService creates a ReportService.
func NewReportService(deps ReportDeps) *ReportService {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &ReportService{
		market:   deps.Market,
		gen:      deps.Generator,
		archive:  deps.Archive,
		language: deps.Language,
		log:      deps.Logger.WithOperation("report"),
	}
}

// BuildStrategyPrompt renders the analysis into the strategy report prompt.
func BuildStrategyPrompt(a models.MarketAnalysis, language string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "검색 키워드: %s\n", a.Keyword)
	fmt.Fprintf(&b, "제품 계열: %s\n\n", a.Context.Category)

	b.WriteString("[트렌드 데이터]\n")
	if a.Trend.State != models.StateOK {
		fmt.Fprintf(&b, "- 사용 불가 (%s) %s\n", a.Trend.State, a.Trend.Message)
	}
	for _, sum := range a.Trend.Summaries {
		fmt.Fprintf(&b, "- %s: 최근 값 %s", sum.GroupName, formatRatios(sum.Recent))
		if sum.RecentGrowth.Defined {
			fmt.Fprintf(&b, ", 최근 성장률 %.1f%%", sum.RecentGrowth.Value)
		} else {
			fmt.Fprintf(&b, ", 최근 성장률 산출 불가 (%s)", sum.RecentGrowth.Reason)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[쇼핑 데이터]\n")
	switch sum := a.Shopping.Summary; {
	case sum == nil:
		fmt.Fprintf(&b, "- 사용 불가 (%s) %s\n", a.Shopping.State, a.Shopping.Message)
	default:
		fmt.Fprintf(&b, "- 상품 수: %d (가격 확인 %d)\n", sum.ListingCount, sum.PricedCount)
		fmt.Fprintf(&b, "- 평균가격: %.0f원, 중앙값: %.0f원, 최저가: %.0f원\n", sum.AveragePrice, sum.MedianPrice, sum.MinPrice)
		b.WriteString("- 브랜드 순위: ")
		if len(sum.BrandShares) == 0 {
			b.WriteString("브랜드 정보 없음")
		}
		for i, bs := range sum.BrandShares {
			if i == maxRankedBrands {
				break
			}
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d. %s (%d건, %.1f%%)", i+1, bs.Brand, bs.Count, bs.Share)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "- 시장 지배력 지수: %.1f\n", sum.DominanceIndex)
		fmt.Fprintf(&b, "- 기회 점수: %.1f (전략 등급 %s)\n", sum.OpportunityScore, sum.StrategyGrade)
	}

	b.WriteString("\n시장 성장성, 브랜드 경쟁 구조, 가격 전략, 신규 진입 전략을 종합 보고서로 작성하세요.\n")
	if language != "" {
		fmt.Fprintf(&b, "Write the report in %s.\n", language)
	}
	return b.String()
}

// BuildDevelopmentPrompt renders the development report form into a prompt.
func BuildDevelopmentPrompt(f models.DevReportForm, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "제품명: %s, 계열: %s\n", f.ProductName(), f.Category)
	fmt.Fprintf(&b, "플레이버: %s, 브랜드: %s\n", f.Flavor, f.Brand)
	fmt.Fprintf(&b, "담당자: %s, 버전: %s\n", f.Manager, f.Version)
	fmt.Fprintf(&b, "컨셉: %s\n", f.Concept)
	fmt.Fprintf(&b, "배합비: %s\n", f.Formula)
	fmt.Fprintf(&b, "관능평가: %s\n", f.Sensory)
	fmt.Fprintf(&b, "품질규격: %s\n", f.Quality)
	fmt.Fprintf(&b, "이슈: %s\n", f.Issues)
	b.WriteString("위 내용으로 신제품 개발 보고서를 전문적으로 작성하세요.\n")
	b.WriteString("항목: 개발배경, 제품특성, 배합비 요약, 관능평가, 품질기준, 향후 과제\n")
	if language != "" {
		fmt.Fprintf(&b, "Write the report in %s.\n", language)
	}
	return b.String()
}

func formatRatios(values []float64) string {
	if len(values) == 0 {
		return "없음"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.1f", v)
	}
	return strings.Join(parts, ", ")
}

// GenerateStrategyReport runs the analysis and asks the generator for the
// strategy report. The report is archived when an archive is configured; a
// failed archive write is logged and the report is still returned.
func (s *ReportService) GenerateStrategyReport(ctx context.Context, req models.AnalysisRequest) (models.GeneratedReport, error) {
	const op = "report.GenerateStrategyReport"
	if s.gen == nil {
		return models.GeneratedReport{}, apperr.Config(op, "text generation is not configured")
	}

	analysis, err := s.market.Analyze(ctx, req)
	if err != nil {
		return models.GeneratedReport{}, err
	}
	if analysis.Trend.State != models.StateOK && analysis.Shopping.Summary == nil {
		return models.GeneratedReport{}, apperr.InsufficientData(op, "neither trend nor shopping data is available for this selection")
	}

	body, err := s.gen.Generate(ctx, BuildStrategyPrompt(analysis, s.language))
	if err != nil {
		return models.GeneratedReport{}, err
	}

	return s.store(ctx, &models.Report{
		Kind:    models.ReportKindStrategy,
		Title:   analysis.Keyword + " 시장 전략 보고서",
		Keyword: analysis.Keyword,
		Model:   s.gen.Model(),
		Body:    body,
	}), nil
}

// GenerateDevelopmentDraft asks the generator for a development report draft.
func (s *ReportService) GenerateDevelopmentDraft(ctx context.Context, form models.DevReportForm) (models.GeneratedReport, error) {
	const op = "report.GenerateDevelopmentDraft"
	if s.gen == nil {
		return models.GeneratedReport{}, apperr.Config(op, "text generation is not configured")
	}

	body, err := s.gen.Generate(ctx, BuildDevelopmentPrompt(form, s.language))
	if err != nil {
		return models.GeneratedReport{}, err
	}

	title := fmt.Sprintf("%s 신제품 개발 보고서", form.ProductName())
	if form.Version != "" {
		title += " " + form.Version
	}
	return s.store(ctx, &models.Report{
		Kind:    models.ReportKindDevelopment,
		Title:   title,
		Keyword: form.ProductName(),
		Model:   s.gen.Model(),
		Body:    body,
	}), nil
}

func (s *ReportService) store(ctx context.Context, r *models.Report) models.GeneratedReport {
	out := models.GeneratedReport{Model: r.Model, Body: r.Body}
	if s.archive == nil {
		return out
	}
	if err := s.archive.Save(ctx, r); err != nil {
		s.log.Error().Err(err).Str("kind", string(r.Kind)).Msg("failed to archive report")
		return out
	}
	out.ID = r.ID
	out.Archived = true
	return out
}

// ListReports returns the newest archived reports, or the sample table when
// no archive is configured.
func (s *ReportService) ListReports(ctx context.Context, limit int) ([]models.ReportListItem, error) {
	if s.archive == nil {
		items := make([]models.ReportListItem, len(sampleReports))
		copy(items, sampleReports)
		return items, nil
	}

	reports, err := s.archive.List(ctx, limit)
	if err != nil {
		return nil, apperr.Transport("report.ListReports", err)
	}
	items := make([]models.ReportListItem, 0, len(reports))
	for _, r := range reports {
		items = append(items, models.ReportListItem{
			ID:        r.ID,
			Product:   r.Title,
			Version:   string(r.Kind),
			Manager:   r.Model,
			CreatedAt: r.CreatedAt.Format("2006-01-02"),
			Status:    "완료",
		})
	}
	return items, nil
}

// ExportReport loads an archived report and renders it as a text file.
func (s *ReportService) ExportReport(ctx context.Context, id string) (filename string, body []byte, err error) {
	const op = "report.ExportReport"
	if s.archive == nil {
		return "", nil, apperr.Config(op, "report archive is not configured")
	}

	r, err := s.archive.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Title)
	fmt.Fprintf(&b, "생성일: %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	if r.Model != "" {
		fmt.Fprintf(&b, "모델: %s\n", r.Model)
	}
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	b.WriteString(r.Body)
	b.WriteString("\n")

	return fmt.Sprintf("report-%s.txt", r.ID), []byte(b.String()), nil
}
