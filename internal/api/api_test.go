package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcqhub/mcq/internal/api"
	"github.com/mcqhub/mcq/internal/catalog"
	"github.com/mcqhub/mcq/internal/mistakes"
	"github.com/mcqhub/mcq/internal/store"
)

const defaultQuiz = `{"questions": [
	{"question": "What is 2 + 2?", "options": {"A": "3", "B": "4"}, "answer_letter": "B", "explanations": "Basic arithmetic."}
]}`

const bondsQuiz = `[
	{"text": "What is a bond coupon?", "choices": ["Interest payment", "Share of profit"], "answer": 0, "explanation": "Coupons are periodic interest.", "topic": "Bonds"},
	{"text": "What does YTM stand for?", "choices": ["Yield to maturity", "Year to month"], "answer": 0}
]`

const spacedQuiz = `[
	{"text": "Which is a government bond?", "choices": ["Treasury", "Equity"], "answer": 0}
]`

type testApp struct {
	server  *httptest.Server
	dataDir string
}

func newTestApp(t *testing.T, files map[string]string) *testApp {
	t.Helper()
	dataDir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dataDir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := catalog.New(dataDir, "mistakes.json", "")
	require.NoError(t, err)
	_ = cat.Reload() // a missing default quiz file only disables the trainer

	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "trainer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := mistakes.NewStore(nil, "mcq:m:mistakes", filepath.Join(dataDir, "mistakes.json"), logger)
	ts := httptest.NewServer(api.NewHandler(cat, m, db, logger).Router())
	t.Cleanup(ts.Close)
	return &testApp{server: ts, dataDir: dataDir}
}

func stdFiles() map[string]string {
	return map[string]string{
		"questions.json":           defaultQuiz,
		"basics.json":              `[{"text": "Pick A.", "choices": ["A", "B", "C"], "answer": 0}]`,
		"Finance/bonds.json":       bondsQuiz,
		"Finance/bond basics.json": spacedQuiz,
		"notes.txt":                "not a quiz",
	}
}

func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func getBody(t *testing.T, c *http.Client, url string) (int, string) {
	t.Helper()
	res, err := c.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(b)
}

func postForm(t *testing.T, c *http.Client, url string, form url.Values) (int, string) {
	t.Helper()
	res, err := c.PostForm(url, form)
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(b)
}

func mistakeCount(t *testing.T, app *testApp) int {
	t.Helper()
	res, err := http.Get(app.server.URL + "/api/mistakes/count")
	require.NoError(t, err)
	defer res.Body.Close()
	var out struct {
		Count int    `json:"count"`
		Store string `json:"store"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out.Count
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, stdFiles())
	res, err := http.Get(app.server.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, "ok", out["status"])
}

func TestHomeListsCatalog(t *testing.T) {
	app := newTestApp(t, stdFiles())
	status, body := getBody(t, http.DefaultClient, app.server.URL+"/")
	require.Equal(t, http.StatusOK, status)

	assert.Contains(t, body, "Finance")
	assert.Contains(t, body, "General")
	assert.Contains(t, body, "bonds")
	assert.Contains(t, body, "/play/Finance/bond%20basics.json")
	assert.Contains(t, body, "0 mistakes stored (local)")
	assert.NotContains(t, body, "mistakes.json")
	assert.NotContains(t, body, "notes")
}

func TestPlayRejectsBadPaths(t *testing.T) {
	app := newTestApp(t, stdFiles())
	outside := filepath.Join(filepath.Dir(app.dataDir), "secret.json")
	require.NoError(t, os.WriteFile(outside, []byte(`[{"text": "hidden", "choices": ["x"], "answer": 0}]`), 0o644))

	c := noRedirect()
	for _, path := range []string{
		"/play/..%2Fsecret.json",
		"/play/notes.txt",
		"/play/missing.json",
	} {
		res, err := c.Get(app.server.URL + path)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusSeeOther, res.StatusCode, path)
		assert.Equal(t, "/", res.Header.Get("Location"), path)
	}
}

func TestPlayEscapedPath(t *testing.T) {
	app := newTestApp(t, stdFiles())
	status, body := getBody(t, http.DefaultClient, app.server.URL+"/play/Finance/bond%20basics.json")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Which is a government bond?")
}

func TestPlayGradesAndRecordsMistakes(t *testing.T) {
	app := newTestApp(t, stdFiles())

	status, body := getBody(t, http.DefaultClient, app.server.URL+"/play/Finance/bonds.json")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "What is a bond coupon?")
	assert.NotContains(t, body, "Score:")

	// One right, one wrong: the wrong answer is stored as a mistake.
	status, body = postForm(t, http.DefaultClient, app.server.URL+"/play/Finance/bonds.json", url.Values{
		"q0": {"0"},
		"q1": {"1"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Score: 1 / 2")
	assert.Contains(t, body, "Coupons are periodic interest.")
	assert.Equal(t, 1, mistakeCount(t, app))

	// Unanswered questions score zero but are not recorded.
	status, body = postForm(t, http.DefaultClient, app.server.URL+"/play/Finance/bonds.json", url.Values{
		"q0": {"0"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Score: 1 / 2")
	assert.Equal(t, 1, mistakeCount(t, app))
}

func TestMasterMergesAllFiles(t *testing.T) {
	app := newTestApp(t, stdFiles())
	status, body := getBody(t, http.DefaultClient, app.server.URL+"/master")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "What is 2 + 2?")
	assert.Contains(t, body, "What is a bond coupon?")
	assert.Contains(t, body, "Pick A.")
	assert.Contains(t, body, "Which is a government bond?")
}

func TestMistakesReviewDoesNotRecord(t *testing.T) {
	app := newTestApp(t, stdFiles())
	postForm(t, http.DefaultClient, app.server.URL+"/play/Finance/bonds.json", url.Values{"q1": {"1"}})
	require.Equal(t, 1, mistakeCount(t, app))

	// Answering wrong during review must not grow the store.
	status, body := postForm(t, http.DefaultClient, app.server.URL+"/mistakes", url.Values{"q0": {"1"}})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Mistake Review")
	assert.Equal(t, 1, mistakeCount(t, app))
}

func TestAPIMistakeFlow(t *testing.T) {
	app := newTestApp(t, stdFiles())

	res, err := http.Post(app.server.URL+"/api/mistake", "application/json", strings.NewReader(
		`{"question": "What is an ETF?", "options": {"A": "Exchange traded fund", "B": "Equity trust fee"}, "answer_letter": "A", "id": 7, "topic": "Funds"}`,
	))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var ok struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&ok))
	assert.True(t, ok.OK)
	assert.Equal(t, 1, mistakeCount(t, app))

	dump, err := http.Get(app.server.URL + "/api/mistakes/dump?limit=5")
	require.NoError(t, err)
	defer dump.Body.Close()
	var out struct {
		Store string `json:"store"`
		Count int    `json:"count"`
		Items []struct {
			Text    string         `json:"text"`
			Choices []string       `json:"choices"`
			Answer  int            `json:"answer"`
			Extras  map[string]any `json:"extras"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(dump.Body).Decode(&out))
	assert.Equal(t, "local", out.Store)
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "What is an ETF?", out.Items[0].Text)
	assert.Equal(t, []string{"Exchange traded fund", "Equity trust fee"}, out.Items[0].Choices)
	assert.Equal(t, 0, out.Items[0].Answer)
	assert.Equal(t, "Funds", out.Items[0].Extras["topic"])
}

func TestAPIMistakeRejectsBadPayloads(t *testing.T) {
	app := newTestApp(t, stdFiles())

	res, err := http.Post(app.server.URL+"/api/mistake", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err = http.Post(app.server.URL+"/api/mistake", "application/json", strings.NewReader("[1, 2]"))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	var out struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.False(t, out.OK)
	assert.Equal(t, "invalid payload", out.Error)

	assert.Equal(t, 0, mistakeCount(t, app))
}

func TestMistakesExports(t *testing.T) {
	app := newTestApp(t, stdFiles())
	res, err := http.Post(app.server.URL+"/api/mistake", "application/json", strings.NewReader(
		`{"question": "What is an ETF?", "options": {"A": "Exchange traded fund", "B": "Equity trust fee"}, "answer_letter": "A", "topic": "Funds"}`,
	))
	require.NoError(t, err)
	res.Body.Close()

	csvRes, err := http.Get(app.server.URL + "/mistakes/export.csv")
	require.NoError(t, err)
	defer csvRes.Body.Close()
	require.Equal(t, http.StatusOK, csvRes.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", csvRes.Header.Get("Content-Type"))
	body, err := io.ReadAll(csvRes.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "topic,question,answer,explanation")
	assert.Contains(t, string(body), "Funds,What is an ETF?,Exchange traded fund")

	pdfRes, err := http.Get(app.server.URL + "/mistakes/export.pdf")
	require.NoError(t, err)
	defer pdfRes.Body.Close()
	require.Equal(t, http.StatusOK, pdfRes.StatusCode)
	assert.Equal(t, "application/pdf", pdfRes.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(pdfRes.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}

func TestMistakesByTopic(t *testing.T) {
	app := newTestApp(t, stdFiles())
	postForm(t, http.DefaultClient, app.server.URL+"/play/Finance/bonds.json", url.Values{
		"q0": {"1"},
		"q1": {"1"},
	})

	status, body := getBody(t, http.DefaultClient, app.server.URL+"/mistakes/topics")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Bonds (1)")
	assert.Contains(t, body, "General (1)")
	assert.Contains(t, body, "What does YTM stand for?")
	assert.Contains(t, body, "Answer: Yield to maturity")
}

func TestTrainerFlow(t *testing.T) {
	app := newTestApp(t, stdFiles())
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &http.Client{Jar: jar}

	status, body := getBody(t, c, app.server.URL+"/legacy")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "What is 2 + 2?")
	serverURL, _ := url.Parse(app.server.URL)
	require.NotEmpty(t, jar.Cookies(serverURL), "expected a session cookie")

	// Right answer: feedback shows once, then clears.
	status, body = postForm(t, c, app.server.URL+"/legacy", url.Values{"choice": {"1"}})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Correct.")
	assert.Contains(t, body, "Streak 1")
	_, body = getBody(t, c, app.server.URL+"/legacy")
	assert.NotContains(t, body, "Correct.")

	// Wrong answer: streak resets and the question is stored.
	_, body = postForm(t, c, app.server.URL+"/legacy", url.Values{"choice": {"0"}})
	assert.Contains(t, body, "Wrong. Answer: 4")
	assert.Contains(t, body, "Streak 0")
	assert.Equal(t, 1, mistakeCount(t, app))

	// No selection at all.
	_, body = postForm(t, c, app.server.URL+"/legacy", url.Values{})
	assert.Contains(t, body, "Pick an option.")
	assert.Equal(t, 1, mistakeCount(t, app))

	// Reset starts a fresh session.
	_, body = getBody(t, c, app.server.URL+"/legacy/reset")
	assert.Contains(t, body, "Streak 0")
	assert.Contains(t, body, "0 / 0 correct")
}

func TestTrainerWithoutDefaultFile(t *testing.T) {
	app := newTestApp(t, map[string]string{
		"Finance/bonds.json": bondsQuiz,
	})
	res, err := noRedirect().Get(app.server.URL + "/legacy")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))
}
