// Package server exposes the valuation engine over HTTP: an uploaded YAML
// valuation config comes back as a JSON allocation report.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/equityval/opm-engine/internal/config"
	"github.com/equityval/opm-engine/internal/valuation"
	"github.com/equityval/opm-engine/pkg/constants"
	"github.com/equityval/opm-engine/pkg/output"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the valuation API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Valuation API endpoint (file upload)
	mux.HandleFunc("/api/valuation", h.handleValuation)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type valuationResponse struct {
	RequestID string                 `json:"requestId"`
	Targets   []targetResult         `json:"targets"`
	CSV       string                 `json:"csv"`
	Warnings  []string               `json:"warnings,omitempty"`
	Duration  string                 `json:"duration"`
	Config    map[string]interface{} `json:"config,omitempty"`
}

type targetResult struct {
	SecurityID              string            `json:"securityId"`
	RunID                   string            `json:"runId"`
	EquityValue             float64           `json:"equityValue"`
	TargetPricePerShare     float64           `json:"targetPricePerShare"`
	ActualPricePerShare     float64           `json:"actualPricePerShare"`
	ResidualError           float64           `json:"residualError"`
	Iterations              int               `json:"iterations"`
	Converged               bool              `json:"converged"`
	DLOM                    dlomResult        `json:"dlom"`
	DiscountedPricePerShare float64           `json:"discountedPricePerShare"`
	Resolution              *resolutionResult `json:"resolution,omitempty"`
}

type dlomResult struct {
	Chaffee         float64 `json:"chaffee"`
	Finnerty        float64 `json:"finnerty"`
	Ghaidarov       float64 `json:"ghaidarov"`
	Longstaff       float64 `json:"longstaff"`
	WeightedAverage float64 `json:"weightedAverage"`
}

type resolutionResult struct {
	PricePerShare   float64            `json:"pricePerShare"`
	ExercisedByPool map[string]float64 `json:"exercisedByPool"`
	Iterations      int                `json:"iterations"`
	Converged       bool               `json:"converged"`
}

func (h *handler) handleValuation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleValuation"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err))
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err))
		return
	}

	h.runValuation(w, configBytes, configMap, start)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) runValuation(w http.ResponseWriter, configBytes []byte, configMap map[string]interface{}, start time.Time) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	warnings := cfg.ValidateConfiguration()
	if err := cfg.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := valuation.GetValuation(h.logger, *cfg)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute valuation: %v", err))
		return
	}

	elapsed := time.Since(start)

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	response := valuationResponse{
		RequestID: uuid.NewString(),
		Targets:   buildTargets(results),
		CSV:       output.CsvString(results),
		Warnings:  warnings,
		Duration:  elapsed.String(),
		Config:    configMap,
	}

	h.logger.Info("valuation computed",
		zap.String("op", "server.runValuation"),
		zap.String("requestId", response.RequestID),
		zap.Int("targets", len(response.Targets)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func buildTargets(results []valuation.Valuation) []targetResult {
	targets := make([]targetResult, 0, len(results))
	for _, result := range results {
		target := targetResult{
			SecurityID:              result.TargetSecurityID,
			RunID:                   result.Backsolve.RunID,
			EquityValue:             result.Backsolve.EquityValue,
			TargetPricePerShare:     result.Backsolve.TargetPricePerShare,
			ActualPricePerShare:     result.Backsolve.ActualPricePerShare,
			ResidualError:           result.Backsolve.ResidualError,
			Iterations:              result.Backsolve.Iterations,
			Converged:               result.Backsolve.Converged,
			DiscountedPricePerShare: result.DiscountedPricePerShare,
			DLOM: dlomResult{
				Chaffee:         result.DLOM.Chaffee,
				Finnerty:        result.DLOM.Finnerty,
				Ghaidarov:       result.DLOM.Ghaidarov,
				Longstaff:       result.DLOM.Longstaff,
				WeightedAverage: result.DLOM.WeightedAverage,
			},
		}
		if result.Resolution != nil {
			target.Resolution = &resolutionResult{
				PricePerShare:   result.Resolution.FinalPricePerShare,
				ExercisedByPool: result.Resolution.ExercisedByPool,
				Iterations:      result.Resolution.Iterations,
				Converged:       result.Resolution.Converged,
			}
		}
		targets = append(targets, target)
	}
	return targets
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.logger.Error("valuation request failed",
		zap.String("op", "server.handleValuation"),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
