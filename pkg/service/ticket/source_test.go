package ticket_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
	"github.com/secmon-lab/cuon/pkg/service/ticket"
)

func TestSIMLookup(t *testing.T) {
	cases := []struct {
		name     string
		impact   int
		expected types.Severity
	}{
		{"impact 1", 1, types.SeveritySev1},
		{"impact 2", 2, types.SeveritySev2},
		{"impact 3", 3, types.SeveritySev3},
		{"impact 4", 4, types.SeveritySev4},
		{"impact 5", 5, types.SeveritySev5},
		{"out of range defaults to SEV3", 9, types.SeveritySev3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gt.Equal(t, "/api/issues/P123", r.URL.Path)
				gt.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				fmt.Fprintf(w, `{"impact": %d, "status": "Open"}`, tc.impact)
			}))
			defer srv.Close()

			src := ticket.NewSIM(srv.URL, "test-token", srv.Client())
			info, err := src.Lookup(context.Background(), "P123")
			gt.NoError(t, err)
			gt.Equal(t, tc.expected, info.Severity)
			gt.Equal(t, "Open", info.Status)
		})
	}

	t.Run("404 maps to ErrTicketNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		src := ticket.NewSIM(srv.URL, "", srv.Client())
		_, err := src.Lookup(context.Background(), "P404")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrTicketNotFound))
	})

	t.Run("server error is not a not-found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		src := ticket.NewSIM(srv.URL, "", srv.Client())
		_, err := src.Lookup(context.Background(), "P500")
		gt.Error(t, err)
		gt.False(t, errors.Is(err, model.ErrTicketNotFound))
	})

	t.Run("source name", func(t *testing.T) {
		src := ticket.NewSIM("http://unused", "", nil)
		gt.Equal(t, types.TicketSourceSim, src.Name())
	})
}

func TestRemedyLookup(t *testing.T) {
	cases := []struct {
		name     string
		priority string
		expected types.Severity
	}{
		{"high", "HIGH", types.SeveritySev2},
		{"medium", "MEDIUM", types.SeveritySev3},
		{"low", "LOW", types.SeveritySev4},
		{"mixed case", "High", types.SeveritySev2},
		{"padded", " low ", types.SeveritySev4},
		{"unrecognized defaults to SEV3", "P1", types.SeveritySev3},
		{"empty defaults to SEV3", "", types.SeveritySev3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gt.Equal(t, "/api/tickets/INC1", r.URL.Path)
				fmt.Fprintf(w, `{"priority": %q, "state": "Assigned"}`, tc.priority)
			}))
			defer srv.Close()

			src := ticket.NewRemedy(srv.URL, "", srv.Client())
			info, err := src.Lookup(context.Background(), "INC1")
			gt.NoError(t, err)
			gt.Equal(t, tc.expected, info.Severity)
			gt.Equal(t, "Assigned", info.Status)
		})
	}

	t.Run("404 maps to ErrTicketNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		src := ticket.NewRemedy(srv.URL, "", srv.Client())
		_, err := src.Lookup(context.Background(), "INC404")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrTicketNotFound))
	})

	t.Run("source name", func(t *testing.T) {
		src := ticket.NewRemedy("http://unused", "", nil)
		gt.Equal(t, types.TicketSourceRemedy, src.Name())
	})
}
