package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotes-service/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ptr[T any](v T) *T {
	return &v
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{
			name:           "quote not found",
			err:            domain.QuoteNotFound(7),
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeNotFound,
			expectedMsg:    "Quote with id=7 not found",
		},
		{
			name:           "wrapped not found keeps entity message",
			err:            fmt.Errorf("updating quote 1: %w", domain.AuthorNotFound(9)),
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeNotFound,
			expectedMsg:    "Author with id=9 not found",
		},
		{
			name:           "duplicate author",
			err:            domain.NewConflictError(domain.EntityAuthor, "name already exists", "Mark Twain"),
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrorCodeConflict,
			expectedMsg:    "Author conflict: name already exists (Mark Twain)",
		},
		{
			name:           "domain validation",
			err:            domain.NewValidationError("text", "must not be empty"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidation,
			expectedMsg:    "validation failed for text: must not be empty",
		},
		{
			name:           "binding error",
			err:            fmt.Errorf("%w: unexpected EOF", ErrBinding),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeBadRequest,
			expectedMsg:    "malformed JSON body",
		},
		{
			name:           "unavailable",
			err:            domain.NewUnavailableError("sqlite", "database is closed"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrorCodeUnavailable,
			expectedMsg:    `service "sqlite" unavailable: database is closed`,
		},
		{
			name:           "request deadline exceeded",
			err:            fmt.Errorf("list quotes: %w", context.DeadlineExceeded),
			expectedStatus: http.StatusGatewayTimeout,
			expectedCode:   ErrorCodeTimeout,
			expectedMsg:    "request timed out",
		},
		{
			name:           "unknown error is hidden",
			err:            errors.New("disk I/O error"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrorCodeInternal,
			expectedMsg:    internalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapError(tt.err)

			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, tt.expectedMsg, resp.Error)
		})
	}
}

func TestMapError_ValidationDetails(t *testing.T) {
	err := Validate(&CreateAuthorRequest{Name: strings.Repeat("x", 40)})
	require.Error(t, err)

	status, resp := MapError(err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, ErrorCodeValidation, resp.Code)
	assert.Equal(t, "must be at most 32 characters", resp.Details["name"])
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := map[string]int{
		ErrorCodeNotFound:    http.StatusNotFound,
		ErrorCodeConflict:    http.StatusConflict,
		ErrorCodeValidation:  http.StatusBadRequest,
		ErrorCodeBadRequest:  http.StatusBadRequest,
		ErrorCodeUnavailable: http.StatusServiceUnavailable,
		ErrorCodeTimeout:     http.StatusGatewayTimeout,
		ErrorCodeInternal:    http.StatusInternalServerError,
		"UNKNOWN":            http.StatusInternalServerError,
	}

	for code, expected := range tests {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, expected, HTTPStatusFromCode(code))
		})
	}
}

func TestErrorResponse_JSONShape(t *testing.T) {
	data, err := json.Marshal(NewErrorResponse(ErrorCodeNotFound, "Quote with id=1 not found"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"error":"Quote with id=1 not found","code":"NOT_FOUND"}`, string(data))
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/quotes/3", nil)

	HandleError(c, domain.QuoteNotFound(3))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Quote with id=3 not found", body["error"])
	assert.NotContains(t, body, "traceId")
}

func TestNotFound_UsesRawID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/quotes/abc", nil)

	NotFound(c, domain.EntityQuote, "abc")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Quote with id=abc not found")
}

func TestAbortWithError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/quotes", nil)

	AbortWithError(c, http.StatusInternalServerError, ErrorCodeInternal, internalErrorMessage)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), ErrorCodeInternal)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw      string
		expected int64
		ok       bool
	}{
		{"1", 1, true},
		{"0", 0, true},
		{"9223372036854775807", 9223372036854775807, true},
		{"9223372036854775808", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, ok := ParseID(tt.raw)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestResponseConversions(t *testing.T) {
	twain := domain.Author{ID: 1, Name: "Mark Twain"}
	quote := domain.Quote{ID: 1, AuthorID: 1, Author: twain, Text: "Cats are wonderful."}

	data, err := json.Marshal(NewQuoteResponse(&quote))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"author":{"id":1,"name":"Mark Twain"},"text":"Cats are wonderful."}`, string(data))

	data, err = json.Marshal(NewAuthorListResponse(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = json.Marshal(NewQuoteListResponse([]domain.Quote{}))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	assert.Equal(t, "Author with id=4 deleted", DeletedMessage(domain.EntityAuthor, 4).Message)
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr bool
		field   string
	}{
		{name: "create author ok", req: &CreateAuthorRequest{Name: "Mark Twain"}},
		{name: "create author missing name", req: &CreateAuthorRequest{}, wantErr: true, field: "name"},
		{name: "create author blank name", req: &CreateAuthorRequest{Name: "   "}, wantErr: true, field: "name"},
		{name: "create author 32 runes", req: &CreateAuthorRequest{Name: strings.Repeat("ё", 32)}},
		{name: "create quote ok", req: &CreateQuoteRequest{Text: "Cats are wonderful."}},
		{name: "create quote too long", req: &CreateQuoteRequest{Text: strings.Repeat("x", 256)}, wantErr: true, field: "text"},
		{name: "update author empty patch", req: &UpdateAuthorRequest{}},
		{name: "update author empty name", req: &UpdateAuthorRequest{Name: ptr("")}, wantErr: true, field: "name"},
		{name: "update quote empty patch", req: &UpdateQuoteRequest{}},
		{name: "update quote author zero", req: &UpdateQuoteRequest{AuthorID: ptr(int64(0))}, wantErr: true, field: "author_id"},
		{name: "update quote both fields", req: &UpdateQuoteRequest{Text: ptr("new"), AuthorID: ptr(int64(2))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, ValidationErrors(err), tt.field)
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   error
		expectTxt *string
		expectAut *int64
	}{
		{name: "allow-listed keys", body: `{"text":"new","author_id":2}`, expectTxt: ptr("new"), expectAut: ptr(int64(2))},
		{name: "unknown keys ignored", body: `{"id":99,"text":"new","extra":true}`, expectTxt: ptr("new")},
		{name: "empty object", body: `{}`},
		{name: "malformed", body: `{"text":`, wantErr: ErrBinding},
		{name: "wrong type", body: `{"author_id":"two"}`, wantErr: ErrBinding},
		{name: "invalid value", body: `{"author_id":-3}`, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPut, "/quotes/1", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req UpdateQuoteRequest

			err := BindAndValidate(c, &req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectTxt, req.Text)
			assert.Equal(t, tt.expectAut, req.AuthorID)

			patch := req.ToPatch()
			assert.Equal(t, tt.expectTxt, patch.Text)
		})
	}
}

func TestBind_LeavesValuesUnchecked(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/quotes/1", strings.NewReader(`{"text":"","author_id":0}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req UpdateQuoteRequest
	require.NoError(t, Bind(c, &req))
	assert.Equal(t, ptr(""), req.Text)
	assert.Equal(t, ptr(int64(0)), req.AuthorID)

	c.Request = httptest.NewRequest(http.MethodPut, "/quotes/1", strings.NewReader(`[`))
	require.ErrorIs(t, Bind(c, &req), ErrBinding)
}

func TestValidationErrors_Messages(t *testing.T) {
	err := Validate(&UpdateQuoteRequest{Text: ptr(strings.Repeat("x", 256)), AuthorID: ptr(int64(0))})

	assert.Equal(t, map[string]string{
		"text":      "must be at most 255 characters",
		"author_id": "must be greater than 0",
	}, ValidationErrors(err))
	assert.Empty(t, ValidationErrors(errors.New("plain")))
}
