package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/CTAG07/charmarkov/pkg/markov"
)

// MarkovAPI holds the dependencies for the language model API handlers.
type MarkovAPI struct {
	model   *markov.LanguageModel
	seed    *int64
	history *HistoryStore // nil when history is disabled
	config  *ServerConfig
	logger  *slog.Logger
}

// NewMarkovAPI creates a new instance of the MarkovAPI. history may be nil.
func NewMarkovAPI(model *markov.LanguageModel, seed *int64, history *HistoryStore, config *ServerConfig, logger *slog.Logger) *MarkovAPI {
	return &MarkovAPI{
		model:   model,
		seed:    seed,
		history: history,
		config:  config,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routing for all /api/model endpoints.
func (m *MarkovAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/model/stats", m.handleStats)
	mux.HandleFunc("/api/model/generate", m.handleGenerate)
	mux.HandleFunc("/api/model/train", m.handleTrain)
	mux.HandleFunc("/api/model/history", m.handleHistory)
}

type GenerateRequest struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
}

type GenerateResponse struct {
	Text  string `json:"text"`
	RunID string `json:"run_id,omitempty"`
}

// handleStats returns the model statistics.
func (m *MarkovAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, m.model.Stats())
}

// handleGenerate generates text from the requested seed text.
func (m *MarkovAPI) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if req.Length < 0 || req.Length > m.config.MaxGenerateLength {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Length must be between 0 and %d", m.config.MaxGenerateLength))
		return
	}

	output := m.model.Generate(r.Context(), req.Text, req.Length)
	resp := GenerateResponse{Text: output}

	if m.history != nil {
		rec, err := m.history.Record(r.Context(), GenerationRecord{
			WindowLength: m.model.WindowLength(),
			Seed:         m.seed,
			InitialText:  req.Text,
			TargetLength: req.Length,
			Output:       output,
		})
		if err != nil {
			// The generated text is still returned.
			m.logger.Error("Failed to record generation", "error", err)
		} else {
			resp.RunID = rec.ID
		}
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// handleTrain trains the model on the raw request body.
func (m *MarkovAPI) handleTrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	body := http.MaxBytesReader(w, r.Body, m.config.MaxTrainBytes)

	if err := m.model.Train(r.Context(), body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Corpus exceeds %d bytes", maxErr.Limit))
			return
		}
		m.logger.Error("Failed to train model", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Training failed: %v", err))
		return
	}
	if err := m.model.Finalize(r.Context()); err != nil {
		m.logger.Error("Failed to finalize model", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Finalize failed: %v", err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleHistory lists recent generations.
func (m *MarkovAPI) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if m.history == nil {
		respondWithError(w, http.StatusNotFound, "History is disabled")
		return
	}
	records, err := m.history.Recent(r.Context(), 50)
	if err != nil {
		m.logger.Error("Failed to read history", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read history: %v", err))
		return
	}
	if records == nil {
		records = []GenerationRecord{}
	}
	respondWithJSON(w, http.StatusOK, records)
}
