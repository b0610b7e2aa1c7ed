package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/skilltrust/portal/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zerolog.Nop())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ---------------------------------------------------------------------------
// Request shape
// ---------------------------------------------------------------------------

func TestClient_Login_SendsCredentials(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody domain.Credentials
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, domain.AuthResult{
			User:  &domain.User{ID: 1, Role: domain.RoleUser},
			Token: "tok-1",
		})
	})

	res, err := c.Login(context.Background(), domain.Credentials{Login: "a@b.et", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotPath != "/login" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "" {
		t.Errorf("login must not carry a bearer token, got %q", gotAuth)
	}
	if gotBody.Login != "a@b.et" || gotBody.Password != "pw" {
		t.Errorf("body = %+v", gotBody)
	}
	if res.Token != "tok-1" || res.User == nil {
		t.Errorf("result = %+v", res)
	}
}

func TestClient_Me_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, domain.User{ID: 3, Role: domain.RoleAdmin})
	})

	user, err := c.Me(context.Background(), "tok-abc")
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if user.ID != 3 {
		t.Errorf("user = %+v", user)
	}
}

func TestClient_Candidates_QueryEncoding(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, domain.Page[domain.Candidate]{CurrentPage: 2})
	})

	page, err := c.Candidates(context.Background(), "tok", domain.CandidateQuery{Search: "welder", Page: 2})
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if gotQuery != "page=2&search=welder" {
		t.Errorf("query = %q", gotQuery)
	}
	if page.CurrentPage != 2 {
		t.Errorf("page = %+v", page)
	}
}

func TestClient_Candidates_FirstPageOmitsPageParam(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, domain.Page[domain.Candidate]{CurrentPage: 1})
	})

	if _, err := c.Candidates(context.Background(), "tok", domain.CandidateQuery{Page: 1}); err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want empty", gotQuery)
	}
}

func TestClient_UpdateProfile_DecodesUserEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Profile updated",
			"user":    domain.User{ID: 5, City: "Bahir Dar"},
		})
	})

	name := "New Name"
	user, err := c.UpdateProfile(context.Background(), "tok", domain.ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.ID != 5 || user.City != "Bahir Dar" {
		t.Errorf("user = %+v", user)
	}
}

func TestClient_VerificationAction_PostsToActionPath(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	if err := c.VerificationAction(context.Background(), "tok", 12, "approve"); err != nil {
		t.Fatalf("VerificationAction: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/institution/verifications/12/approve" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

// ---------------------------------------------------------------------------
// Error classification
// ---------------------------------------------------------------------------

func TestClient_Classify422(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors": map[string][]string{
				"email":    {"The email has already been taken."},
				"password": {"The password must be at least 8 characters."},
			},
		})
	})

	_, err := c.Register(context.Background(), domain.Registration{})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 2 || ve.Fields["email"][0] != "The email has already been taken." {
		t.Errorf("fields = %v", ve.Fields)
	}
}

func TestClient_Classify422_MessageOnlyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "Invalid payload"})
	})

	_, err := c.Register(context.Background(), domain.Registration{})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields.First() != "Invalid payload" {
		t.Errorf("fields = %v", ve.Fields)
	}
}

func TestClient_ClassifyStatuses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"401", http.StatusUnauthorized, func(t *testing.T, err error) {
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("got %v", err)
			}
		}},
		{"403", http.StatusForbidden, func(t *testing.T, err error) {
			if !errors.Is(err, domain.ErrForbidden) {
				t.Errorf("got %v", err)
			}
		}},
		{"404", http.StatusNotFound, func(t *testing.T, err error) {
			if !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("got %v", err)
			}
		}},
		{"409", http.StatusConflict, func(t *testing.T, err error) {
			var ce *domain.ConflictError
			if !errors.As(err, &ce) || ce.Field != "email" {
				t.Errorf("got %v", err)
			}
		}},
		{"500", http.StatusInternalServerError, func(t *testing.T, err error) {
			var ue *domain.UpstreamError
			if !errors.As(err, &ue) || ue.Status != http.StatusInternalServerError {
				t.Errorf("got %v", err)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, map[string]string{"message": "nope"})
			})
			_, err := c.Me(context.Background(), "tok")
			if err == nil {
				t.Fatal("expected error")
			}
			tc.check(t, err)
		})
	}
}

func TestClient_ConnectionRefusedIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, zerolog.Nop())
	_, err := c.Me(context.Background(), "tok")

	var ne *domain.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if ne.Timeout {
		t.Error("refused connection is not a timeout")
	}
}

func TestClient_TimeoutIsFlagged(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	c.httpc.Timeout = 20 * time.Millisecond

	_, err := c.Me(context.Background(), "tok")
	var ne *domain.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !ne.Timeout {
		t.Errorf("expected Timeout flag on %v", err)
	}
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func TestClient_Ping_AnyStatusIsReachable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping should accept any HTTP response, got %v", err)
	}
}

func TestClient_Ping_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, zerolog.Nop())
	if err := c.Ping(context.Background()); !domain.IsNetwork(err) {
		t.Errorf("expected network error, got %v", err)
	}
}
