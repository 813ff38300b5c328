package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"foodintel/apperr"
	"foodintel/config"
	"foodintel/logger"
	"foodintel/models"
)

const (
	registryCodeOK     = "INFO-000"
	registryCodeNoData = "INFO-200"

	registryDateLayout = "20060102"
)

// Provider field codes of the product manufacturing report service.
const (
	FieldBusinessName     = "BSSH_NM"
	FieldProductName      = "PRDLST_NM"
	FieldReportNumber     = "PRDLST_REPORT_NO"
	FieldReportDate       = "PRMS_DT"
	FieldProductType      = "PRDLST_DCNM"
	FieldShelfLife        = "POG_DAYCNT"
	FieldProductionStatus = "PRODUCTION"
	FieldLicenseNumber    = "LCNS_NO"
)

// RegistryFieldNames maps provider field codes to display names.
var RegistryFieldNames = map[string]string{
	FieldBusinessName:     "업소명",
	FieldProductName:      "제품명",
	FieldReportNumber:     "품목제조번호",
	FieldReportDate:       "보고일자",
	FieldProductType:      "식품유형",
	FieldShelfLife:        "소비기한",
	FieldProductionStatus: "생산종료여부",
	FieldLicenseNumber:    "인허가번호",
}

// RegistryClient queries the food-safety product registry. Timed-out
// requests are retried with a fixed delay up to MaxAttempts attempts in
// total; every other failure is returned immediately.
type RegistryClient struct {
	cfg        config.RegistryConfig
	httpClient *http.Client
	log        *logger.Logger

	// sleep waits between attempts. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRegistryClient creates a registry client. The per-attempt timeout is
// taken from cfg.Timeout.
func NewRegistryClient(cfg config.RegistryConfig, httpClient *http.Client, log *logger.Logger) *RegistryClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if log == nil {
		log = logger.Default()
	}
	return &RegistryClient{
		cfg:        cfg,
		httpClient: httpClient,
		log:        log.WithOperation("registry.Fetch"),
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type registryResult struct {
	Code    string `json:"CODE"`
	Message string `json:"MSG"`
}

type registryEnvelope struct {
	TotalCount json.RawMessage  `json:"total_count"`
	Rows       []map[string]any `json:"row"`
	Result     registryResult   `json:"RESULT"`
}

// Fetch requests records Start..End (1-based, inclusive) with the query's
// field filters. A "no data" answer is an empty result, not an error.
func (c *RegistryClient) Fetch(ctx context.Context, q models.RegistryQuery) (models.RegistryResult, error) {
	const op = "registry.Fetch"
	if c.cfg.APIKey == "" {
		return models.RegistryResult{}, apperr.Config(op, "food-safety registry key is not configured")
	}
	if q.Start < 1 || q.End < q.Start {
		return models.RegistryResult{}, apperr.Validation(op, fmt.Sprintf("invalid record range %d-%d", q.Start, q.End))
	}

	endpoint := c.endpoint(q)
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		body, err := c.attempt(ctx, endpoint)
		if err == nil {
			return c.decode(body)
		}
		if !isTimeout(err) || ctx.Err() != nil {
			return models.RegistryResult{}, apperr.Transport(op, err)
		}

		lastErr = err
		c.log.Warn().Int("attempt", attempt).Int("max_attempts", c.cfg.MaxAttempts).Err(err).Msg("registry request timed out")
		if attempt == c.cfg.MaxAttempts {
			break
		}
		if err := c.sleep(ctx, c.cfg.RetryDelay); err != nil {
			return models.RegistryResult{}, apperr.Transport(op, err)
		}
	}
	return models.RegistryResult{}, apperr.Timeout(op, c.cfg.MaxAttempts, lastErr)
}

func (c *RegistryClient) attempt(ctx context.Context, endpoint string) ([]byte, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return body, nil
}

func (c *RegistryClient) endpoint(q models.RegistryQuery) string {
	u := fmt.Sprintf("%s/%s/%s/json/%d/%d",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		url.PathEscape(c.cfg.APIKey),
		url.PathEscape(c.cfg.ServiceID),
		q.Start, q.End)

	var filters []string
	for _, f := range []struct{ code, value string }{
		{FieldBusinessName, q.BusinessName},
		{FieldProductName, q.ProductName},
		{FieldReportNumber, q.ReportNumber},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			filters = append(filters, f.code+"="+url.PathEscape(v))
		}
	}
	if len(filters) > 0 {
		u += "/" + strings.Join(filters, "&")
	}
	return u
}

func (c *RegistryClient) decode(body []byte) (models.RegistryResult, error) {
	const op = "registry.Fetch"

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return models.RegistryResult{}, apperr.Transport(op, fmt.Errorf("decode response: %w", err))
	}

	var env registryEnvelope
	if raw, ok := top[c.cfg.ServiceID]; ok {
		if err := json.Unmarshal(raw, &env); err != nil {
			return models.RegistryResult{}, apperr.Transport(op, fmt.Errorf("decode %s: %w", c.cfg.ServiceID, err))
		}
	} else if raw, ok := top["RESULT"]; ok {
		// Errors such as an invalid key come back without the service wrapper.
		if err := json.Unmarshal(raw, &env.Result); err != nil {
			return models.RegistryResult{}, apperr.Transport(op, fmt.Errorf("decode RESULT: %w", err))
		}
	} else {
		return models.RegistryResult{}, apperr.Transport(op, fmt.Errorf("response has neither %s nor RESULT", c.cfg.ServiceID))
	}

	switch env.Result.Code {
	case registryCodeOK:
	case registryCodeNoData:
		return models.RegistryResult{Records: []models.RegistryRecord{}}, nil
	default:
		msg := env.Result.Message
		if msg == "" {
			msg = "registry returned " + env.Result.Code
		}
		return models.RegistryResult{}, apperr.New(apperr.KindProvider, op, msg, fmt.Errorf("result code %s", env.Result.Code))
	}

	records := NormalizeRegistryRows(env.Rows)
	SortByReportDate(records)
	return models.RegistryResult{
		Records:    records,
		TotalCount: parseCount(env.TotalCount, len(records)),
	}, nil
}

// NormalizeRegistryRows maps provider field codes to record fields. Codes
// without a dedicated field are kept in Extra.
func NormalizeRegistryRows(rows []map[string]any) []models.RegistryRecord {
	records := make([]models.RegistryRecord, 0, len(rows))
	for _, row := range rows {
		var r models.RegistryRecord
		for code, raw := range row {
			v := stringValue(raw)
			switch code {
			case FieldBusinessName:
				r.BusinessName = v
			case FieldProductName:
				r.ProductName = v
			case FieldReportNumber:
				r.ReportNumber = v
			case FieldReportDate:
				r.ReportDateRaw = v
				r.ReportDate = ParseReportDate(v)
			case FieldProductType:
				r.ProductType = v
			case FieldShelfLife:
				r.ShelfLife = v
			case FieldProductionStatus:
				r.ProductionStatus = v
			case FieldLicenseNumber:
				r.LicenseNumber = v
			default:
				if r.Extra == nil {
					r.Extra = make(map[string]string)
				}
				r.Extra[code] = v
			}
		}
		records = append(records, r)
	}
	return records
}

// ParseReportDate parses a YYYYMMDD report date. Anything else is nil.
func ParseReportDate(raw string) *time.Time {
	t, err := time.Parse(registryDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &t
}

// SortByReportDate orders records newest first with unparseable dates last,
// then numbers them from 1.
func SortByReportDate(records []models.RegistryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].ReportDate, records[j].ReportDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	for i := range records {
		records[i].Index = i + 1
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func parseCount(raw json.RawMessage, fallback int) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return fallback
}
