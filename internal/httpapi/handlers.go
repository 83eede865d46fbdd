package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"visiond/internal/imagecheck"
	"visiond/internal/manager"
	"visiond/internal/prompt"
	"visiond/pkg/types"
)

type handlers struct {
	svc Service
}

// analyzeBody mirrors types.AnalyzeRequest with a pointer so a missing field
// can be told apart from an empty one.
type analyzeBody struct {
	Image *string `json:"image"`
}

// example godoc
// @Summary      Example analysis
// @Description  Returns a fixed sample of the analysis output. Never touches the model.
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  types.TextResponse
// @Router       /example [post]
// @Router       /example [get]
func (h *handlers) example(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.TextResponse{Text: prompt.ExampleText})
}

// analyze godoc
// @Summary      Analyze an image
// @Description  Validates a base64 image (raw or data URI) and asks the vision model for a JSON description.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      types.AnalyzeRequest  true  "Image to analyze"
// @Success      200      {object}  types.TextResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      413      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      422      {object}  types.ErrorResponse
// @Failure      429      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /analyze [post]
func (h *handlers) analyze(w http.ResponseWriter, r *http.Request) {
	// Content-Type check
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	// Limit body size (configurable, default 32MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var body analyzeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", mbe.Limit))
			return
		}
		writeJSONError(w, http.StatusUnprocessableEntity, "invalid JSON body: "+err.Error())
		return
	}
	if body.Image == nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "field required: image")
		return
	}

	lvl := requestLogLevel(r)
	start := time.Now()
	logAnalyzeStart(r, lvl, len(*body.Image))

	res := imagecheck.Validate(*body.Image)
	if !res.OK() {
		imagesTotal.WithLabelValues("invalid").Inc()
		writeJSONError(w, http.StatusBadRequest, "Invalid image data: "+res.Reason())
		logAnalyzeEnd(r, lvl, http.StatusBadRequest, start, res.Err)
		return
	}
	imagesTotal.WithLabelValues(res.Format).Inc()

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if inferTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, time.Duration(inferTimeout)*time.Second)
		defer tcancel()
	}

	text, err := h.svc.Complete(ctx, prompt.AnalysisChat(res.DataURI))
	if err != nil {
		// If context was canceled (client disconnect), just return.
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			logAnalyzeEnd(r, lvl, 499, start, err)
			return
		}
		status, msg := mapInferenceError(err)
		if status == http.StatusTooManyRequests {
			IncrementBackpressure(backpressureReason(err))
		}
		writeJSONError(w, status, msg)
		logAnalyzeEnd(r, lvl, status, start, err)
		return
	}
	writeJSON(w, types.TextResponse{Text: text})
	logAnalyzeEnd(r, lvl, http.StatusOK, start, nil)
}

// mapInferenceError maps well-known manager errors to HTTP status codes.
func mapInferenceError(err error) (int, string) {
	var he HTTPError
	switch {
	case manager.IsTooBusy(err):
		return http.StatusTooManyRequests, "Model busy: " + err.Error()
	case manager.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable, "Model unavailable: " + err.Error()
	case errors.As(err, &he):
		return he.StatusCode(), he.Error()
	default:
		return http.StatusInternalServerError, "Model inference error: " + err.Error()
	}
}

func backpressureReason(err error) string {
	if strings.Contains(err.Error(), "queue full") {
		return "queue_full"
	}
	return "wait_timeout"
}

// status godoc
// @Summary      Session status
// @Description  Reports the inference session state, artifacts and admission queue.
// @Tags         ops
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Status())
}
