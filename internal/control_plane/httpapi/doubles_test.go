package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"acs-console/internal/control_plane/domain"
	"acs-console/internal/control_plane/usecases"
	shareddomain "acs-console/internal/shared_kernel/domain"
	sharedhttpapi "acs-console/internal/shared_kernel/httpapi"
	sharedUsecases "acs-console/internal/shared_kernel/usecases"
)

type fakeCommandService struct {
	dispatchResult domain.Command
	dispatchErr    error
	dispatchInput  usecases.DispatchInput
	cancelErr      error
	cancelledID    domain.ID
	recent         []domain.Command
	recentLimit    int
	counts         map[domain.CommandStatus]int64
}

func (s *fakeCommandService) Dispatch(_ context.Context, input usecases.DispatchInput) (domain.Command, error) {
	s.dispatchInput = input
	if s.dispatchErr != nil {
		return domain.Command{}, s.dispatchErr
	}
	return s.dispatchResult, nil
}

func (s *fakeCommandService) Cancel(_ context.Context, id domain.ID) error {
	s.cancelledID = id
	return s.cancelErr
}

func (s *fakeCommandService) RecentByDevice(_ context.Context, _ string, limit int) ([]domain.Command, error) {
	s.recentLimit = limit
	return s.recent, nil
}

func (s *fakeCommandService) StatusCounts(_ context.Context) (map[domain.CommandStatus]int64, error) {
	return s.counts, nil
}

type fakeTaskResultService struct {
	reports   []usecases.TaskResultReport
	handleErr error
}

func (s *fakeTaskResultService) HandleTaskResult(_ context.Context, report usecases.TaskResultReport) error {
	s.reports = append(s.reports, report)
	return s.handleErr
}

// fakeAuthService maps fixed tokens onto principals so the real
// RequestAuthenticator middleware runs in tests.
type fakeAuthService struct {
	principals map[string]shareddomain.Principal
}

func (s *fakeAuthService) IssueToken(_ context.Context, _, _ string) (sharedUsecases.IssuedToken, error) {
	return sharedUsecases.IssuedToken{}, sharedUsecases.ErrInvalidCredentials
}

func (s *fakeAuthService) ResolvePrincipal(_ context.Context, token string) (shareddomain.Principal, error) {
	principal, ok := s.principals[token]
	if !ok {
		return shareddomain.Principal{}, sharedUsecases.ErrInvalidToken
	}
	return principal, nil
}

func newTestAuthenticator() *sharedhttpapi.RequestAuthenticator {
	return sharedhttpapi.NewRequestAuthenticator(&fakeAuthService{
		principals: map[string]shareddomain.Principal{
			"admin-token": {ID: "admin-id", IsAdmin: true},
			"operator-token": {
				ID: "operator-id",
				Permissions: []string{
					shareddomain.PermissionViewDetails,
					shareddomain.PermissionTaskWifi,
					shareddomain.PermissionTaskDelete,
				},
			},
			"viewer-token": {ID: "viewer-id"},
		},
	})
}

func doRequest(handler http.Handler, r *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, r)
	return recorder
}
