package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"acs-console/internal/infra/sql"
	"acs-console/internal/shared_kernel/httpapi"
	"acs-console/internal/shared_kernel/persistence"
	"acs-console/internal/shared_kernel/usecases"
)

type apiFixture struct {
	router      *http.ServeMux
	userService *usecases.SimpleUserService
	authService *usecases.SimpleAuthService
	adminToken  string
}

func newAPIFixture(t *testing.T, name string) *apiFixture {
	t.Helper()

	orm, err := sql.NewMemoryORM(name)
	require.NoError(t, err)

	repository, err := persistence.NewUserRepository(orm)
	require.NoError(t, err)

	userService := usecases.NewUserService(repository)
	authService, err := usecases.NewAuthService(repository, usecases.AuthConfig{
		JWTSecret: "unit-test-secret",
		TokenTTL:  time.Hour,
	})
	require.NoError(t, err)

	require.NoError(t, userService.EnsureRootUser(context.Background(), "bootstrap-pass"))
	issued, err := authService.IssueToken(context.Background(), "admin", "bootstrap-pass")
	require.NoError(t, err)

	authenticator := httpapi.NewRequestAuthenticator(authService)
	router := http.NewServeMux()
	httpapi.NewAuthController(authService).AddRoutes(router)
	httpapi.NewUserController(userService, authenticator).AddRoutes(router)

	return &apiFixture{
		router:      router,
		userService: userService,
		authService: authService,
		adminToken:  issued.Token,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}
