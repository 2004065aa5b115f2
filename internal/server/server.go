// Package server exposes the pricer over HTTP: a small web form for
// interactive use plus JSON endpoints for programmatic callers.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"

	"github.com/contactkeval/option-lattice/internal/config"
	"github.com/contactkeval/option-lattice/internal/data"
	"github.com/contactkeval/option-lattice/internal/grid"
	"github.com/contactkeval/option-lattice/internal/logger"
	"github.com/contactkeval/option-lattice/internal/pricing"
)

type Server struct {
	cfg     *config.Config
	prov    data.Provider
	decoder *schema.Decoder
	router  *mux.Router
}

// New wires the routes. prov may be nil, in which case ticker lookups
// are rejected and all six inputs must be supplied by the caller.
func New(cfg *config.Config, prov data.Provider) *Server {
	s := &Server{cfg: cfg, prov: prov, decoder: schema.NewDecoder()}
	s.decoder.IgnoreUnknownKeys(true)

	router := mux.NewRouter()
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/price", s.handlePriceForm).Methods(http.MethodPost)
	router.HandleFunc("/api/price", s.handleAPIPrice).Methods(http.MethodPost)
	router.HandleFunc("/api/heatmap", s.handleAPIHeatmap).Methods(http.MethodPost)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router = router
	return s
}

// Router exposes the handler for tests and for embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP on the configured port.
func (s *Server) ListenAndServe() error {
	addr := ":" + s.cfg.Port
	logger.Infof("listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// priceForm is the web form payload. A ticker may replace a typed-in
// spot price and volatility.
type priceForm struct {
	CurrentPrice   float64 `schema:"current_price"`
	Strike         float64 `schema:"strike"`
	TimeToMaturity float64 `schema:"time_to_maturity"`
	Volatility     float64 `schema:"volatility"`
	InterestRate   float64 `schema:"interest_rate"`
	Steps          int     `schema:"steps"`
	Ticker         string  `schema:"ticker"`
}

func (f priceForm) request() pricing.Request {
	return pricing.Request{
		CurrentPrice:   f.CurrentPrice,
		Strike:         f.Strike,
		TimeToMaturity: f.TimeToMaturity,
		Volatility:     f.Volatility,
		InterestRate:   f.InterestRate,
		Steps:          f.Steps,
	}
}

// fillFromTicker replaces a zero spot and/or vol with provider data for
// the named ticker.
func (s *Server) fillFromTicker(req *pricing.Request, ticker string) error {
	if ticker == "" {
		return nil
	}
	if s.prov == nil {
		return errors.New("no market data provider configured")
	}
	if req.CurrentPrice == 0 {
		spot, err := s.prov.GetSpot(ticker)
		if err != nil {
			return err
		}
		req.CurrentPrice = spot
	}
	if req.Volatility == 0 {
		to := time.Now().UTC()
		bars, err := s.prov.GetDailyBars(ticker, to.AddDate(-1, 0, 0), to)
		if err != nil {
			return err
		}
		req.Volatility = data.AnnualizedVolatility(data.Closes(bars))
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	renderIndex(w, s.cfg.Defaults.Request(), "")
}

func (s *Server) handlePriceForm(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.New().String()

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var form priceForm
	if err := s.decoder.Decode(&form, r.PostForm); err != nil {
		logger.Debugf("[%s] form decode error: %v", reqID, err)
		w.WriteHeader(http.StatusBadRequest)
		renderIndex(w, s.cfg.Defaults.Request(), "could not read form values: "+err.Error())
		return
	}

	req := form.request()
	if err := s.fillFromTicker(&req, form.Ticker); err != nil {
		logger.Errorf("[%s] ticker lookup %q failed: %v", reqID, form.Ticker, err)
		w.WriteHeader(http.StatusBadGateway)
		renderIndex(w, req, "ticker lookup failed: "+err.Error())
		return
	}

	res, err := pricing.Compute(req)
	if err != nil {
		logger.Debugf("[%s] rejected: %v", reqID, err)
		w.WriteHeader(http.StatusBadRequest)
		renderIndex(w, req, err.Error())
		return
	}

	logger.Infof("[%s] priced S=%.2f K=%.2f call=%.4f put=%.4f", reqID, req.CurrentPrice, req.Strike, res.CallPrice, res.PutPrice)
	renderResult(w, req, res)
}

// priceRequest is the JSON API payload.
type priceRequest struct {
	pricing.Request
	Ticker string `json:"ticker,omitempty"`
}

type priceResponse struct {
	RequestID string          `json:"request_id"`
	Request   pricing.Request `json:"request"`
	Result    pricing.Result  `json:"result"`

	// Closed-form reference prices for eyeballing lattice convergence.
	BlackScholesCall float64 `json:"black_scholes_call"`
	BlackScholesPut  float64 `json:"black_scholes_put"`
}

func (s *Server) handleAPIPrice(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.New().String()

	var body priceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, reqID, err)
		return
	}

	req := body.Request
	if err := s.fillFromTicker(&req, body.Ticker); err != nil {
		writeError(w, http.StatusBadGateway, reqID, err)
		return
	}

	res, err := pricing.Compute(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pricing.ErrInvalidParameter) {
			status = http.StatusBadRequest
		}
		writeError(w, status, reqID, err)
		return
	}

	logger.Infof("[%s] priced S=%.2f K=%.2f call=%.4f put=%.4f", reqID, req.CurrentPrice, req.Strike, res.CallPrice, res.PutPrice)
	writeJSON(w, http.StatusOK, priceResponse{
		RequestID:        reqID,
		Request:          req,
		Result:           *res,
		BlackScholesCall: pricing.BlackScholesPrice(true, req.CurrentPrice, req.Strike, req.TimeToMaturity, req.InterestRate, req.Volatility),
		BlackScholesPut:  pricing.BlackScholesPrice(false, req.CurrentPrice, req.Strike, req.TimeToMaturity, req.InterestRate, req.Volatility),
	})
}

type heatmapResponse struct {
	RequestID string       `json:"request_id"`
	Result    *grid.Result `json:"result"`
}

func (s *Server) handleAPIHeatmap(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.New().String()

	var spec grid.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, reqID, err)
		return
	}

	res, err := grid.Run(spec)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pricing.ErrInvalidParameter) {
			status = http.StatusBadRequest
		}
		writeError(w, status, reqID, err)
		return
	}

	logger.Infof("[%s] heatmap %dx%d computed", reqID, len(res.Vols), len(res.Spots))
	writeJSON(w, http.StatusOK, heatmapResponse{RequestID: reqID, Result: res})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reqID string, err error) {
	logger.Errorf("[%s] %v", reqID, err)
	writeJSON(w, status, map[string]string{"request_id": reqID, "error": err.Error()})
}
