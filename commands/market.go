package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"foodintel/models"
)

var (
	marketReq    models.AnalysisRequest
	marketJSON   bool
	marketReport bool
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Analyze the market of a beverage category from the terminal",
	Example: `  foodintel market --category 탄산음료 --brand 펩시 --flavor 콜라
  foodintel market --category 과일주스 --flavor-custom 유자 --granularity week --json`,
	RunE: runMarket,
}

func init() {
	f := marketCmd.Flags()
	f.StringVar(&marketReq.Category, "category", "", "beverage category (required)")
	f.StringVar(&marketReq.FlavorChoice, "flavor", "", "recommended flavor")
	f.StringVar(&marketReq.FlavorCustom, "flavor-custom", "", "custom flavor, overrides --flavor")
	f.StringVar(&marketReq.BrandChoice, "brand", "", "recommended brand")
	f.StringVar(&marketReq.BrandCustom, "brand-custom", "", "custom brand, overrides --brand")
	f.StringVar(&marketReq.StartDate, "start", "", "trend start date (default 2023-01-01)")
	f.StringVar(&marketReq.EndDate, "end", "", "trend end date (default today)")
	f.StringVar((*string)(&marketReq.Granularity), "granularity", "month", "date, week or month")
	f.BoolVar(&marketJSON, "json", false, "print the full analysis as JSON")
	f.BoolVar(&marketReport, "report", false, "also generate the strategy report")
	_ = marketCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(marketCmd)
}

func runMarket(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s, err := buildStack(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	analysis, err := s.market.Analyze(ctx, marketReq)
	if err != nil {
		return err
	}

	if marketJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			return err
		}
	} else {
		printAnalysis(analysis)
	}

	if marketReport {
		report, err := s.reports.GenerateStrategyReport(ctx, marketReq)
		if err != nil {
			return err
		}
		color.New(color.Bold).Printf("\n전략 보고서 (%s)\n", report.Model)
		fmt.Println(report.Body)
	}
	return nil
}

func printAnalysis(a models.MarketAnalysis) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	bold.Printf("%s (%s)\n", a.Keyword, a.Context.Category)

	bold.Print("\n트렌드 ")
	fmt.Println(stateLabel(a.Trend.State, a.Trend.Message))
	for _, sum := range a.Trend.Summaries {
		growth := "n/a"
		if sum.RecentGrowth.Defined {
			growth = fmt.Sprintf("%+.1f%%", sum.RecentGrowth.Value)
		}
		fmt.Printf("  %-16s points=%-4d recent growth %s\n", sum.GroupName, len(sum.Points), growth)
		for _, w := range sum.Warnings {
			dim.Printf("    %s\n", w)
		}
	}

	bold.Print("\n쇼핑 ")
	fmt.Println(stateLabel(a.Shopping.State, a.Shopping.Message))
	sum := a.Shopping.Summary
	if sum == nil {
		return
	}
	fmt.Printf("  상품 %d건 (가격 %d건)\n", sum.ListingCount, sum.PricedCount)
	fmt.Printf("  평균 %.0f원  중앙값 %.0f원  최저 %.0f원\n", sum.AveragePrice, sum.MedianPrice, sum.MinPrice)
	if sum.TopBrand != "" {
		fmt.Printf("  1위 브랜드 %s (%.1f%%)  지배력 %.1f\n", sum.TopBrand, sum.TopBrandShare, sum.DominanceIndex)
	}
	fmt.Printf("  기회 점수 %.1f  등급 ", sum.OpportunityScore)
	gradeColor(sum.StrategyGrade).Println(string(sum.StrategyGrade))
}

func stateLabel(state models.SectionState, msg string) string {
	label := string(state)
	switch state {
	case models.StateOK:
		label = color.GreenString(label)
	case models.StateError:
		label = color.RedString(label)
	default:
		label = color.YellowString(label)
	}
	if msg != "" {
		label += " " + msg
	}
	return label
}

func gradeColor(g models.Grade) *color.Color {
	switch g {
	case models.GradeA:
		return color.New(color.FgGreen, color.Bold)
	case models.GradeB:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
