package handlers_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/go-rental/internal/api/middleware"
	"github.com/hugh/go-rental/internal/testutil"
)

// sessionRouter returns a root router and an inline router whose routes run
// behind the session and rotation middleware, the way the API mounts them.
func sessionRouter(tc *testutil.TestSetup) (*chi.Mux, chi.Router) {
	root := chi.NewRouter()
	return root, root.With(middleware.Session(tc.AuthService), middleware.RotationGate)
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
