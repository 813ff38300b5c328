package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodintel/apperr"
	"foodintel/config"
	"foodintel/logger"
	"foodintel/models"
)

func newTestRegistry(t *testing.T, handler http.HandlerFunc) (*RegistryClient, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default().Registry
	cfg.BaseURL = srv.URL + "/api"
	cfg.APIKey = "testkey"
	cfg.Timeout = 50 * time.Millisecond

	c := NewRegistryClient(cfg, srv.Client(), logger.Nop())
	var waits []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return c, &waits
}

func TestRegistryRetriesTimeoutsThreeTimes(t *testing.T) {
	var calls int32
	c, waits := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	_, err := c.Fetch(context.Background(), models.RegistryQuery{Start: 1, End: 10})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindTimeout), "got %v", err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, *waits)
}

func TestRegistryDoesNotRetryOtherFailures(t *testing.T) {
	var calls int32
	c, waits := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.Fetch(context.Background(), models.RegistryQuery{Start: 1, End: 10})
	assert.True(t, apperr.Is(err, apperr.KindTransport), "got %v", err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, *waits)
}

func TestRegistryRecoversAfterTimeout(t *testing.T) {
	var calls int32
	c, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-r.Context().Done()
			return
		}
		_, _ = w.Write([]byte(`{"I1250":{"total_count":"1","row":[{"PRDLST_NM":"사과주스","PRMS_DT":"20250101"}],"RESULT":{"MSG":"정상처리되었습니다.","CODE":"INFO-000"}}}`))
	})

	res, err := c.Fetch(context.Background(), models.RegistryQuery{Start: 1, End: 10})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "사과주스", res.Records[0].ProductName)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRegistryNoDataIsEmptyNotError(t *testing.T) {
	c, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"I1250":{"total_count":"0","RESULT":{"MSG":"해당하는 데이터가 없습니다.","CODE":"INFO-200"}}}`))
	})

	res, err := c.Fetch(context.Background(), models.RegistryQuery{Start: 1, End: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestRegistryProviderErrorCarriesMessage(t *testing.T) {
	c, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"RESULT":{"MSG":"인증키가 유효하지 않습니다.","CODE":"INFO-100"}}`))
	})

	_, err := c.Fetch(context.Background(), models.RegistryQuery{Start: 1, End: 10})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindProvider))
	assert.Equal(t, "인증키가 유효하지 않습니다.", apperr.MessageOf(err))
}

func TestRegistryRequestPathAndNormalization(t *testing.T) {
	var path string
	c, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"I1250":{"total_count":"250","row":[
			{"BSSH_NM":"가나식품","PRDLST_NM":"보리차","PRMS_DT":"20250101","PRDLST_DCNM":"침출차","POG_DAYCNT":"12개월","PRODUCTION":"아니오","PRDLST_REPORT_NO":"1"},
			{"BSSH_NM":"다라식품","PRDLST_NM":"식혜","PRMS_DT":"bad","RAWMTRL_NM":"쌀"},
			{"BSSH_NM":"마바식품","PRDLST_NM":"녹차","PRMS_DT":"20250301"}
		],"RESULT":{"MSG":"정상처리되었습니다.","CODE":"INFO-000"}}}`))
	})

	res, err := c.Fetch(context.Background(), models.RegistryQuery{Start: 1, End: 100, ProductName: "차"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/api/testkey/I1250/json/1/100/"), path)
	assert.Contains(t, path, "PRDLST_NM=차")
	assert.Equal(t, 250, res.TotalCount)

	require.Len(t, res.Records, 3)
	got := []string{res.Records[0].ReportDateRaw, res.Records[1].ReportDateRaw, res.Records[2].ReportDateRaw}
	assert.Equal(t, []string{"20250301", "20250101", "bad"}, got)
	assert.Equal(t, []int{1, 2, 3}, []int{res.Records[0].Index, res.Records[1].Index, res.Records[2].Index})
	assert.Nil(t, res.Records[2].ReportDate)
	assert.Equal(t, "쌀", res.Records[2].Extra["RAWMTRL_NM"])
	assert.Equal(t, "침출차", res.Records[1].ProductType)
	assert.Equal(t, "12개월", res.Records[1].ShelfLife)
}

func TestRegistryConfigAndRangeErrors(t *testing.T) {
	c := NewRegistryClient(config.Default().Registry, nil, logger.Nop())
	_, err := c.Fetch(context.Background(), models.RegistryQuery{Start: 1, End: 10})
	assert.True(t, apperr.Is(err, apperr.KindConfig))

	cfg := config.Default().Registry
	cfg.APIKey = "k"
	c = NewRegistryClient(cfg, nil, logger.Nop())
	_, err = c.Fetch(context.Background(), models.RegistryQuery{Start: 5, End: 1})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSortByReportDate(t *testing.T) {
	records := []models.RegistryRecord{
		{ReportDateRaw: "20250101", ReportDate: ParseReportDate("20250101")},
		{ReportDateRaw: "bad", ReportDate: ParseReportDate("bad")},
		{ReportDateRaw: "20250301", ReportDate: ParseReportDate("20250301")},
	}
	SortByReportDate(records)
	assert.Equal(t, "20250301", records[0].ReportDateRaw)
	assert.Equal(t, "20250101", records[1].ReportDateRaw)
	assert.Equal(t, "bad", records[2].ReportDateRaw)
}
