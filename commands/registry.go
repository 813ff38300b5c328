package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"foodintel/services"
)

var registryReq services.RegistrySearch

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Look up product manufacturing reports in the registry",
	RunE:  runRegistry,
}

func init() {
	f := registryCmd.Flags()
	f.IntVar(&registryReq.Start, "start", 1, "first record index")
	f.IntVar(&registryReq.End, "end", 100, "last record index")
	f.StringVar(&registryReq.BusinessName, "business", "", "business name")
	f.StringVar(&registryReq.ProductName, "product", "", "product name")
	f.StringVar(&registryReq.ReportNumber, "report-number", "", "manufacturing report number")
	f.StringVar(&registryReq.Filter, "filter", "", "keep records whose names or type contain this text")
	f.IntVar(&registryReq.Page, "page", 1, "page to print")
	f.IntVar(&registryReq.PageSize, "page-size", 20, "records per page")
	rootCmd.AddCommand(registryCmd)
}

func runRegistry(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := buildStack(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	page, err := s.registry.Search(ctx, registryReq)
	if err != nil {
		return err
	}
	if page.Fetched == 0 {
		color.Yellow("no registry records")
		return nil
	}

	for _, r := range page.Data {
		date := r.ReportDateRaw
		if r.ReportDate != nil {
			date = r.ReportDate.Format("2006-01-02")
		}
		fmt.Printf("%5d  %-10s  %-24s  %-30s  %s\n", r.Index, date, r.BusinessName, r.ProductName, r.ProductType)
	}
	color.New(color.Faint).Printf("page %d/%d, %d matching of %d fetched (%d in registry)\n",
		page.Pagination.CurrentPage, page.Pagination.TotalPages, page.Pagination.TotalItems, page.Fetched, page.TotalCount)
	return nil
}
