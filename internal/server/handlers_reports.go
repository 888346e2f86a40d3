package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/report"
)

// period reads the from/to query parameters. It writes the error response and
// returns false when they are invalid.
func (s *Server) period(w http.ResponseWriter, r *http.Request) (model.DateRange, bool) {
	q := r.URL.Query()
	rng, err := report.ParseRange(q.Get("from"), q.Get("to"), s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return model.DateRange{}, false
	}
	return rng, true
}

// respond writes v, or the mapped error when err is set. Server-side failures
// are logged.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, op string, v any, err error) {
	if err != nil {
		status := mapError(err)
		if status == http.StatusInternalServerError {
			logging.Error(s.log, "server", op, err, logrus.Fields{"path": r.URL.Path})
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) subjectBalances(w http.ResponseWriter, r *http.Request) {
	rng, ok := s.period(w, r)
	if !ok {
		return
	}
	res, err := s.reports.SubjectBalances(r.Context(), rng)
	s.respond(w, r, "subject-balances", res, err)
}

func (s *Server) trialBalance(w http.ResponseWriter, r *http.Request) {
	rng, ok := s.period(w, r)
	if !ok {
		return
	}
	res, err := s.reports.TrialBalance(r.Context(), rng)
	s.respond(w, r, "trial-balance", res, err)
}

func (s *Server) detailLedger(w http.ResponseWriter, r *http.Request) {
	rng, ok := s.period(w, r)
	if !ok {
		return
	}
	sortKey, err := ledger.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.reports.DetailLedger(r.Context(), chi.URLParam(r, "code"), r.URL.Query().Get("aux"), sortKey, rng)
	s.respond(w, r, "ledger", res, err)
}

func (s *Server) funds(w http.ResponseWriter, r *http.Request) {
	rng, ok := s.period(w, r)
	if !ok {
		return
	}
	res, err := s.reports.FundSummary(r.Context(), rng)
	s.respond(w, r, "funds", res, err)
}

func (s *Server) reconciliation(w http.ResponseWriter, r *http.Request) {
	rng, ok := s.period(w, r)
	if !ok {
		return
	}
	rows, err := s.reports.Reconcile(r.Context(), rng)
	s.respond(w, r, "reconciliation", rows, err)
}

func (s *Server) diffDetails(w http.ResponseWriter, r *http.Request) {
	rng, ok := s.period(w, r)
	if !ok {
		return
	}
	res, err := s.reports.DiffDetails(r.Context(), chi.URLParam(r, "account"), rng)
	s.respond(w, r, "reconciliation-details", res, err)
}
