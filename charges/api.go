package charges

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alovak/pixflow-playground/charges/models"
	"github.com/go-chi/chi/v5"
)

// API is a HTTP API for the charges service
type API struct {
	charges *Service
}

func NewAPI(charges *Service) *API {
	return &API{
		charges: charges,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Post("/payloads", a.buildPayload)
	r.Route("/charges", func(r chi.Router) {
		r.Post("/", a.createCharge)
		r.Get("/", a.listCharges)
		r.Route("/{chargeID}", func(r chi.Router) {
			r.Get("/", a.getCharge)
			r.Get("/qrcode.png", a.getQRCode)
		})
	})
}

func (a *API) buildPayload(w http.ResponseWriter, r *http.Request) {
	req := models.CreateCharge{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := a.charges.BuildPayload(req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.Payload{Payload: payload})
}

func (a *API) createCharge(w http.ResponseWriter, r *http.Request) {
	req := models.CreateCharge{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	charge, err := a.charges.CreateCharge(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, charge)
}

func (a *API) listCharges(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	list, err := a.charges.ListCharges(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*models.Charge{}
	}

	writeJSON(w, http.StatusOK, list)
}

func (a *API) getCharge(w http.ResponseWriter, r *http.Request) {
	chargeID := chi.URLParam(r, "chargeID")

	charge, err := a.charges.GetCharge(r.Context(), chargeID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, charge)
}

func (a *API) getQRCode(w http.ResponseWriter, r *http.Request) {
	chargeID := chi.URLParam(r, "chargeID")

	png, err := a.charges.QRCode(r.Context(), chargeID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrExpired):
		http.Error(w, err.Error(), http.StatusGone)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
