package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ziadkadry99/writetutor/internal/calllog"
)

const defaultRecentLimit = 20

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	if d.cfg.Calls == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "call log disabled"})
		return
	}
	stats, err := d.cfg.Calls.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (d *Dashboard) handleRecent(w http.ResponseWriter, r *http.Request) {
	if d.cfg.Calls == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "call log disabled"})
		return
	}

	limit := defaultRecentLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	calls, err := d.cfg.Calls.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if calls == nil {
		calls = []calllog.Call{}
	}
	writeJSON(w, http.StatusOK, calls)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
