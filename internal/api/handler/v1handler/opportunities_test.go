package v1handler_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"backlinks/internal/analyzer"
	mockanalyzer "backlinks/internal/analyzer/mock"
	"backlinks/internal/api/handler/v1handler"
	"backlinks/internal/rules"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func uploadRequest(t *testing.T, target string, files map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func newAnalyzer() analyzer.Analyzer {
	return analyzer.New(rules.Default(), nil, nil, analyzer.Options{Workers: 2})
}

var exports = map[string]string{
	"competitor": "Referring URL,url\nx,http://good-example.com/page\ny,http://cheap.xyz/page\nz,HTTP://A.COM\n",
	"client":     "URL\nhttp://a.com\n",
}

func TestOpportunities_JSON(t *testing.T) {
	rec := serve(t, newAnalyzer(), v1handler.Options{}, uploadRequest(t, "/opportunities", exports))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"competitorCount": 3,
		"clientCount": 1,
		"flaggedCount": 1,
		"summary": "Found 2 unique opportunities not yet used by client.",
		"opportunities": [
			{"url": "http://cheap.xyz/page", "status": "Spammy", "flagged": true,
			 "reasons": ["Domain contains spammy keyword or TLD"], "reason": "Domain contains spammy keyword or TLD"},
			{"url": "http://good-example.com/page", "status": "Likely Good", "flagged": false, "reasons": [], "reason": ""}
		]
	}`, rec.Body.String())
}

func TestOpportunities_CSV(t *testing.T) {
	const want = "URL,Status,Reason\n" +
		"http://cheap.xyz/page,Spammy,Domain contains spammy keyword or TLD\n" +
		"http://good-example.com/page,Likely Good,\n"

	for name, req := range map[string]*http.Request{
		"query":  uploadRequest(t, "/opportunities?format=csv", exports),
		"accept": uploadRequest(t, "/opportunities", exports),
	} {
		t.Run(name, func(t *testing.T) {
			if name == "accept" {
				req.Header.Set("Accept", "text/csv;q=0.9, application/json;q=0.5")
			}

			rec := serve(t, newAnalyzer(), v1handler.Options{}, req)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
			require.Equal(t, "attachment; filename=backlink_opportunities.csv", rec.Header().Get("Content-Disposition"))
			require.Equal(t, want, rec.Body.String())
		})
	}
}

func TestOpportunities_NoneFound(t *testing.T) {
	files := map[string]string{"competitor": "url\nhttp://a.com\n", "client": "url\nhttp://a.com/\nhttp://A.com\n"}

	rec := serve(t, newAnalyzer(), v1handler.Options{}, uploadRequest(t, "/opportunities", files))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"competitorCount": 1,
		"clientCount": 2,
		"flaggedCount": 0,
		"summary": "No unique opportunities found. The client already has all competitor links.",
		"opportunities": []
	}`, rec.Body.String())
}

func TestOpportunities_Errors(t *testing.T) {
	tests := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		status int
		code   string
	}{
		{
			name: "missing URL column",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/opportunities", map[string]string{
					"competitor": "url\nhttp://a.com\n",
					"client":     "Link\nhttp://a.com\n",
				})
			},
			status: http.StatusUnprocessableEntity,
			code:   "SCHEMA",
		},
		{
			name: "missing client file",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/opportunities", map[string]string{"competitor": "url\n"})
			},
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name: "not multipart",
			req: func(_ *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/opportunities", bytes.NewBufferString("url\n"))
			},
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name: "unsupported format",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/opportunities?format=xml", exports)
			},
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the mock fails the test on any call
			a := mockanalyzer.NewMockAnalyzer(gomock.NewController(t))

			rec := serve(t, a, v1handler.Options{}, tt.req(t))
			require.Equal(t, tt.status, rec.Code)
			require.Contains(t, rec.Body.String(), `"code":"`+tt.code+`"`)
		})
	}
}

func TestOpportunities_SchemaMessage(t *testing.T) {
	files := map[string]string{"competitor": "Link\nhttp://a.com\n", "client": "url\n"}

	rec := serve(t, newAnalyzer(), v1handler.Options{}, uploadRequest(t, "/opportunities", files))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.JSONEq(t, `{"code": "SCHEMA", "message": "Both files must contain a column named 'URL'"}`, rec.Body.String())
}

func TestOpportunities_AnalyzerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mockanalyzer.NewMockAnalyzer(ctrl)
	a.EXPECT().Analyze(gomock.Any(), []string{"http://a.com"}, []string(nil)).Return(nil, errors.New("boom"))

	files := map[string]string{"competitor": "url\nhttp://a.com\n", "client": "url\n"}
	rec := serve(t, a, v1handler.Options{}, uploadRequest(t, "/opportunities", files))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"code": "INTERNAL", "message": "internal error"}`, rec.Body.String())
}
