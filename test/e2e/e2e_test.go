// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-risk-workers/internal/assessment"
	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/common/database"
	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/llm"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/dataset"
	"credit-risk-workers/pkg/registry"

	acr "credit-risk-workers/internal/workers/risk/assess-credit-risk"
)

// fakeOpenAI answers chat completions with a fixed reply and counts requests.
func fakeOpenAI(t *testing.T, reply string) (*httptest.Server, *int64) {
	t.Helper()
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func writeConfig(t *testing.T, csvPath, baseURL string, cacheEnabled bool, redisAddr string) string {
	t.Helper()
	body := strings.Join([]string{
		"dataset:",
		"  source: csv",
		"  path: \"" + csvPath + "\"",
		"llm:",
		"  provider: openai",
		"  base_url: \"" + baseURL + "\"",
		"  model: gpt-4o",
		"  timeout: 5000",
		"  cache:",
		"    enabled: " + map[bool]string{true: "true", false: "false"}[cacheEnabled],
		"    ttl: 60000",
		"database:",
		"  redis:",
		"    address: \"" + redisAddr + "\"",
		"workers:",
		"  assess-credit-risk:",
		"    enabled: true",
		"",
	}, "\n")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestPipeline_GenerateLoadAssess runs the offline path end to end: generate the table, write
// it as CSV, load it through the configured source and assess applicants through the worker.
func TestPipeline_GenerateLoadAssess(t *testing.T) {
	ctx := context.Background()
	t.Setenv("OPENAI_API_KEY", "sk-e2e")
	log := logger.NewTestLogger(t)

	csvPath := filepath.Join(t.TempDir(), "customer_database.csv")
	generated := dataset.Generate(dataset.GeneratorConfig{
		Count:                20,
		Seed:                 42,
		SimulateTransactions: true,
		TransactionsPerEntry: dataset.DefaultTransactionsPerEntry,
	})
	require.NoError(t, dataset.WriteCSVFile(csvPath, generated))
	t.Log("✅ Dataset generated")

	server, calls := fakeOpenAI(t, "Score: 30\nReason: Consistent employment and a modest request.")
	cfg, err := config.LoadFromFile(writeConfig(t, csvPath, server.URL+"/v1", false, ""))
	require.NoError(t, err)

	snapshot, err := dataset.Load(ctx, cfg.Dataset, nil)
	require.NoError(t, err)
	require.Equal(t, len(generated), snapshot.Len())
	assert.Equal(t, generated, snapshot.Records())
	t.Log("✅ Dataset loaded")

	completer, err := llm.NewCompleter(ctx, cfg.LLM, nil, log)
	require.NoError(t, err)
	assessor := assessment.NewAssessor(completer, cfg.LLM.Model, config.GetDuration(cfg.LLM.Timeout), log)

	workerCfg, err := acr.NewConfig(cfg, registry.Default())
	require.NoError(t, err)
	handler, err := acr.NewHandler(acr.HandlerOptions{
		Config:   workerCfg,
		Snapshot: snapshot,
		Assessor: assessor,
		Logger:   log,
	})
	require.NoError(t, err)

	for _, rec := range snapshot.Records() {
		out, err := handler.Execute(ctx, &acr.Input{ApplicantName: rec.Name, Essay: "I need this loan to renovate my kitchen."})
		require.NoError(t, err, rec.Name)

		wantHard := 100 - float64(rec.CreditScore)/8.5
		wantFinal := 0.6*wantHard + 0.4*30

		assert.InDelta(t, wantHard, out.HardRiskScore, 1e-9)
		assert.Equal(t, 30.0, out.SoftRiskScore)
		assert.InDelta(t, wantFinal, out.FinalScore, 1e-9)
		if wantFinal > 60 {
			assert.Equal(t, "REJECT LOAN", out.Verdict, rec.Name)
		} else {
			assert.Equal(t, "APPROVE LOAN", out.Verdict, rec.Name)
		}
		assert.Equal(t, string(assessment.OutcomeParsed), out.ParseOutcome)
	}
	assert.Equal(t, int64(snapshot.Len()), atomic.LoadInt64(calls))
	t.Log("✅ Every applicant assessed")

	_, err = handler.Execute(ctx, &acr.Input{ApplicantName: "Nobody Here", Essay: "x"})
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeApplicantNotFound, stdErr.Code)
	assert.Equal(t, int64(snapshot.Len()), atomic.LoadInt64(calls), "unknown applicant never reaches the service")
}

// TestPipeline_BatchWithCache assesses the whole table twice through the Redis cache; the
// second pass is served without calling the service.
func TestPipeline_BatchWithCache(t *testing.T) {
	ctx := context.Background()
	t.Setenv("OPENAI_API_KEY", "sk-e2e")
	log := logger.NewTestLogger(t)
	mr := miniredis.RunT(t)

	csvPath := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, dataset.WriteCSVFile(csvPath, dataset.Generate(dataset.GeneratorConfig{Count: 8, Seed: 3, SimulateTransactions: true})))

	server, calls := fakeOpenAI(t, "The applicant seems fine.")
	cfg, err := config.LoadFromFile(writeConfig(t, csvPath, server.URL+"/v1", true, mr.Addr()))
	require.NoError(t, err)

	rc, err := database.NewRedis(ctx, cfg.Database.Redis)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	snapshot, err := dataset.Load(ctx, cfg.Dataset, nil)
	require.NoError(t, err)

	completer, err := llm.NewCompleter(ctx, cfg.LLM, rc.Client, log)
	require.NoError(t, err)
	assessor := assessment.NewAssessor(completer, cfg.LLM.Model, time.Second, log)

	inputs := make([]assessment.Input, 0, snapshot.Len())
	for _, rec := range snapshot.Records() {
		inputs = append(inputs, assessment.Input{Applicant: rec, Essay: "same essay"})
	}

	first := assessor.AssessBatch(ctx, inputs, 3)
	for i, item := range first {
		require.NoError(t, item.Err)
		assert.Equal(t, inputs[i].Applicant.Name, item.Result.ApplicantName, "results keep input order")
		assert.Equal(t, assessment.OutcomeFallback, item.Result.ParseOutcome)
		assert.Equal(t, assessment.DefaultSoftRiskScore, item.Result.SoftRiskScore)
	}
	afterFirst := atomic.LoadInt64(calls)
	assert.LessOrEqual(t, afterFirst, int64(len(inputs)))

	second := assessor.AssessBatch(ctx, inputs, 3)
	for _, item := range second {
		require.NoError(t, item.Err)
	}
	assert.Equal(t, afterFirst, atomic.LoadInt64(calls), "second pass served from cache")
}

// TestLiveServices exercises the Postgres dataset source and the Zeebe gateway on localhost.
// It runs only when E2E_LIVE is set.
func TestLiveServices(t *testing.T) {
	if os.Getenv("E2E_LIVE") == "" {
		t.Skip("set E2E_LIVE=1 to run against local Postgres and Zeebe")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.LoadForTools()
	require.NoError(t, err)
	cfg.Database.Postgres.Host = "localhost"

	pg, err := database.NewPostgres(ctx, cfg.Database.Postgres)
	require.NoError(t, err, "❌ PostgreSQL connection failed")
	defer pg.Close()
	t.Log("✅ PostgreSQL connected")

	src := dataset.NewPostgresSource(pg.DB, "applicants_e2e")
	require.NoError(t, src.EnsureTable(ctx))

	records := dataset.Generate(dataset.GeneratorConfig{Count: 10, Seed: 11, SimulateTransactions: true})
	require.NoError(t, src.Replace(ctx, records))

	cfg.Dataset = config.DatasetConfig{Source: config.DatasetSourcePostgres, Table: "applicants_e2e"}
	snapshot, err := dataset.Load(ctx, cfg.Dataset, pg.DB)
	require.NoError(t, err)
	assert.Equal(t, records, snapshot.Records())
	t.Log("✅ Applicant table round-tripped")

	_, err = pg.DB.ExecContext(ctx, `DROP TABLE IF EXISTS "applicants_e2e"`)
	assert.NoError(t, err)

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
	})
	require.NoError(t, err)
	defer zeebeClient.Close()

	_, err = zeebeClient.NewTopologyCommand().Send(ctx)
	assert.NoError(t, err, "❌ Zeebe topology request failed")
	t.Log("✅ Zeebe connected")
}
