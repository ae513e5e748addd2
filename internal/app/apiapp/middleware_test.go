package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/TomShtern/Date-Program-sub005/internal/transport/http/handlers"
)

func TestIdentityMiddlewareSetsUserContext(t *testing.T) {
	mw := IdentityMiddleware(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
	req.Header.Set("X-User-ID", "42")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := handlers.UserIDFromContext(r.Context())
		if !ok || userID != 42 {
			t.Fatalf("user id missing in context: got %d ok=%v", userID, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestIdentityMiddlewareRejectsMissingHeader(t *testing.T) {
	mw := IdentityMiddleware(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without identity")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestIdentityMiddlewareRejectsMalformedHeader(t *testing.T) {
	mw := IdentityMiddleware(zap.NewNop())

	for _, value := range []string{"abc", "-5", "0", "  "} {
		req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
		req.Header.Set("X-User-ID", value)
		rr := httptest.NewRecorder()

		mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Fatalf("handler must not be called for header %q", value)
		})).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: unexpected status: got %d want %d", value, rr.Code, http.StatusUnauthorized)
		}
	}
}
