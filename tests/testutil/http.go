package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPTestCase represents a test case for HTTP handler testing.
type HTTPTestCase struct {
	Name           string
	Method         string
	Path           string
	Body           any
	Headers        map[string]string
	Principal      *identity.Principal
	ExpectedStatus int
	// ExpectedCode is the error code of a failed response
	ExpectedCode string
	Setup        func(t *testing.T, tc *TestContext)
	Validate     func(t *testing.T, tc *TestContext)
}

func (tc HTTPTestCase) request(t *testing.T) *http.Request {
	t.Helper()

	var body io.Reader
	if tc.Body != nil {
		raw, err := json.Marshal(tc.Body)
		require.NoError(t, err, "Failed to marshal request body")
		body = bytes.NewReader(raw)
	}
	method := tc.Method
	if method == "" {
		method = http.MethodGet
	}
	path := tc.Path
	if path == "" {
		path = "/"
	}
	req := httptest.NewRequest(method, path, body)
	if tc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}
	return req
}

// RunHTTPTestCases runs a slice of HTTP test cases against a handler.
func RunHTTPTestCases(t *testing.T, handler gin.HandlerFunc, cases []HTTPTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunHTTPTestCase(t, handler, tc)
		})
	}
}

// RunHTTPTestCase runs a single HTTP test case directly against handler.
// Path parameters are not resolved; use ServeHTTPTestCase for routed handlers.
func RunHTTPTestCase(t *testing.T, handler gin.HandlerFunc, tc HTTPTestCase) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = tc.request(t)

	testCtx := &TestContext{Context: c, Recorder: w}
	if tc.Principal != nil {
		testCtx.SetPrincipal(*tc.Principal)
	}
	if tc.Setup != nil {
		tc.Setup(t, testCtx)
	}

	handler(c)
	tc.check(t, testCtx)
}

// ServeHTTPTestCase sends the case through engine, middleware and routing included.
// Principal is ignored; engine's own middleware decides who is calling.
func ServeHTTPTestCase(t *testing.T, engine http.Handler, tc HTTPTestCase) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, tc.request(t))

	testCtx := &TestContext{Recorder: w}
	tc.check(t, testCtx)
	return testCtx
}

func (tc HTTPTestCase) check(t *testing.T, testCtx *TestContext) {
	t.Helper()

	if tc.ExpectedStatus != 0 {
		assert.Equal(t, tc.ExpectedStatus, testCtx.Recorder.Code, "Unexpected status code: %s", testCtx.Recorder.Body.String())
	}
	if tc.ExpectedCode != "" {
		AssertErrorResponse(t, testCtx, tc.ExpectedCode)
	}
	if tc.Validate != nil {
		tc.Validate(t, testCtx)
	}
}

// JSONResponse parses the response body as the standard envelope.
func JSONResponse(t *testing.T, tc *TestContext) dto.Response {
	t.Helper()

	var result dto.Response
	err := json.Unmarshal(tc.ResponseBody(), &result)
	require.NoError(t, err, "Failed to parse JSON response")
	return result
}

// DataAs decodes the envelope's data field into a T.
func DataAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	err := json.Unmarshal(tc.ResponseBody(), &envelope)
	require.NoError(t, err, "Failed to parse JSON response")
	return envelope.Data
}

// AssertSuccessResponse asserts the response is a successful API response.
func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.True(t, resp.Success, "Expected success to be true")
	assert.Nil(t, resp.Error, "Expected no error")
}

// AssertErrorResponse asserts the response is an error API response.
func AssertErrorResponse(t *testing.T, tc *TestContext, expectedCode string) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.False(t, resp.Success, "Expected success to be false")
	require.NotNil(t, resp.Error, "Expected error object in response")
	assert.Equal(t, expectedCode, resp.Error.Code, "Unexpected error code")
}
