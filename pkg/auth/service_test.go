package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockJWKSClient implements JWKSClientInterface.
type mockJWKSClient struct {
	claims *Claims
	err    error
}

func (m *mockJWKSClient) ValidateToken(_ string) (*Claims, error) {
	return m.claims, m.err
}

func TestValidateRequest(t *testing.T) {
	t.Run("accepts bearer header", func(t *testing.T) {
		want := &Claims{PracticeID: uuid.New().String()}
		svc := NewAuthService(&mockJWKSClient{claims: want}, nil, zap.NewNop())

		r := httptest.NewRequest(http.MethodGet, "/api/practices/x/hr/overview", nil)
		r.Header.Set("Authorization", "Bearer some.jwt.token")

		claims, token, err := svc.ValidateRequest(r)
		require.NoError(t, err)
		assert.Equal(t, want, claims)
		assert.Equal(t, "some.jwt.token", token)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		svc := NewAuthService(&mockJWKSClient{}, nil, zap.NewNop())
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, _, err := svc.ValidateRequest(r)
		assert.ErrorIs(t, err, ErrMissingAuthorization)
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		svc := NewAuthService(&mockJWKSClient{}, nil, zap.NewNop())
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		_, _, err := svc.ValidateRequest(r)
		assert.ErrorIs(t, err, ErrInvalidAuthFormat)
	})

	t.Run("propagates token validation failure", func(t *testing.T) {
		svc := NewAuthService(&mockJWKSClient{err: assert.AnError}, nil, zap.NewNop())
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer bad.jwt.token")

		_, _, err := svc.ValidateRequest(r)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestPracticeIDChecks(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{}, nil, zap.NewNop())
	practiceID := uuid.New().String()

	assert.NoError(t, svc.RequirePracticeID(&Claims{PracticeID: practiceID}))
	assert.ErrorIs(t, svc.RequirePracticeID(&Claims{}), ErrMissingPracticeID)

	assert.NoError(t, svc.ValidatePracticeIDMatch(&Claims{PracticeID: practiceID}, practiceID))
	assert.NoError(t, svc.ValidatePracticeIDMatch(&Claims{PracticeID: practiceID}, ""))
	assert.ErrorIs(t, svc.ValidatePracticeIDMatch(&Claims{PracticeID: practiceID}, uuid.New().String()),
		ErrPracticeIDMismatch)
}

func TestMiddlewareRequireAuthWithPracticeScope(t *testing.T) {
	practiceID := uuid.New().String()

	newServer := func(jwks JWKSClientInterface) *httptest.Server {
		svc := NewAuthService(jwks, nil, zap.NewNop())
		mw := NewMiddleware(svc, zap.NewNop())

		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/practices/{pid}/hr/overview",
			mw.RequireAuthWithPracticeScope("pid")(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := GetClaims(r.Context())
				require.True(t, ok)
				assert.Equal(t, practiceID, claims.PracticeID)
				w.WriteHeader(http.StatusOK)
			}))
		return httptest.NewServer(mux)
	}

	get := func(t *testing.T, url, token string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, url, nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("matching practice passes through", func(t *testing.T) {
		server := newServer(&mockJWKSClient{claims: &Claims{PracticeID: practiceID}})
		defer server.Close()

		resp := get(t, server.URL+"/api/practices/"+practiceID+"/hr/overview", "tok")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		server := newServer(&mockJWKSClient{claims: &Claims{PracticeID: practiceID}})
		defer server.Close()

		resp := get(t, server.URL+"/api/practices/"+practiceID+"/hr/overview", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token without practice scope is 401", func(t *testing.T) {
		server := newServer(&mockJWKSClient{claims: &Claims{}})
		defer server.Close()

		resp := get(t, server.URL+"/api/practices/"+practiceID+"/hr/overview", "tok")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("cross-practice access is 403", func(t *testing.T) {
		server := newServer(&mockJWKSClient{claims: &Claims{PracticeID: uuid.New().String()}})
		defer server.Close()

		resp := get(t, server.URL+"/api/practices/"+practiceID+"/hr/overview", "tok")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
