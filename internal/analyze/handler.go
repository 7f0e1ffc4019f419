package analyze

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caravel-labs/caravel/internal/limits"
	"github.com/caravel-labs/caravel/internal/usagelog"
	"github.com/caravel-labs/caravel/pkg/handlers"
	"github.com/caravel-labs/caravel/pkg/routes"
)

// Quota rejection reasons surfaced to the caller.
const (
	ReasonAnonymousLimit = "anonymous_daily_limit"
	ReasonUserLimit      = "user_daily_limit"
)

const eventRecordTimeout = 5 * time.Second

// Handler provides the HTTP endpoint for product analysis.
type Handler struct {
	sys           System
	counter       limits.Counter
	events        limits.System
	usage         *usagelog.Writer
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler wiring the analysis system to its limiter,
// limit-event sink, and usage log.
func NewHandler(
	sys System,
	counter limits.Counter,
	events limits.System,
	usage *usagelog.Writer,
	logger *slog.Logger,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		counter:       counter,
		events:        events,
		usage:         usage,
		logger:        logger.With("handler", "analyze"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for the analysis endpoint.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analyze-product",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Analyze},
		},
	}
}

type jsonRequest struct {
	Input string `json:"input"`
	Image string `json:"image,omitempty"`
}

type quotaResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Analyze handles one analysis request. The limiter gate runs before any
// model call so over-quota requests never incur the expensive work; the
// gating call itself still consumes one use, including the call that trips
// the limit.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	cmd, err := h.parseRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	identity := limits.Identify(r)
	usage := h.counter.CheckAndIncrement(identity.Key, identity.Authenticated)

	if usage.Exceeded() {
		reason := ReasonAnonymousLimit
		if identity.Authenticated {
			reason = ReasonUserLimit
		}

		h.recordLimitHit(r, identity, reason, cmd.Input)
		h.submitUsage(cmd.Input, nil)

		handlers.RespondJSON(w, http.StatusTooManyRequests, quotaResponse{
			OK:      false,
			Error:   "quota_exceeded",
			Reason:  reason,
			Message: "Daily analysis limit reached. Try again tomorrow.",
		})
		return
	}

	analysis, err := h.sys.Analyze(r.Context(), *cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), ErrAnalysisFailed)
		return
	}

	h.submitUsage(cmd.Input, analysis)

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"analysis": analysis,
	})
}

// parseRequest accepts either a multipart form (input field plus optional
// image file) or a JSON body with a base64 image.
func (h *Handler) parseRequest(r *http.Request) (*Command, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if contentType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			return nil, err
		}

		cmd := &Command{Input: strings.TrimSpace(r.FormValue("input"))}
		if cmd.Input == "" {
			return nil, ErrMissingInput
		}

		file, _, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				return nil, err
			}
			cmd.Image = dataURI(data)
		}

		return cmd, nil
	}

	var req jsonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}

	cmd := &Command{Input: strings.TrimSpace(req.Input)}
	if cmd.Input == "" {
		return nil, ErrMissingInput
	}

	if req.Image != "" {
		if strings.HasPrefix(req.Image, "data:") {
			cmd.Image = req.Image
		} else {
			cmd.Image = "data:image/jpeg;base64," + req.Image
		}
	}

	return cmd, nil
}

// recordLimitHit persists the quota hit for lead analytics in the background;
// failures are logged and swallowed.
func (h *Handler) recordLimitHit(r *http.Request, identity limits.Identity, reason, input string) {
	userType := "anonymous"
	var userID *string
	if identity.Authenticated {
		userType = "user"
		userID = &identity.User
	}

	var userAgent *string
	if ua := r.UserAgent(); ua != "" {
		userAgent = &ua
	}

	cmd := limits.CreateCommand{
		Action:    limits.ActionLimitHit,
		Reason:    reason,
		UserType:  userType,
		Input:     &input,
		UserID:    userID,
		UserAgent: userAgent,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), eventRecordTimeout)
		defer cancel()

		if _, err := h.events.Record(ctx, cmd); err != nil {
			h.logger.Warn("limit hit not recorded", "reason", reason, "error", err)
		}
	}()
}

// submitUsage appends a usage event; analysis is nil for rejected requests,
// which still record their raw input for lead analytics.
func (h *Handler) submitUsage(input string, analysis *Analysis) {
	ev := usagelog.Event{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		RawInput:  input,
	}

	if analysis != nil {
		ev.ProductName = optional(analysis.ProductName)
		ev.HTSCode = optional(analysis.HTSCode)
		ev.Market = optional(analysis.Market)
		ev.RegulationTags = analysis.RegulationTags
		ev.RiskScore = &analysis.RiskScore
		ev.FeasibilityScore = &analysis.FeasibilityScore

		if analysis.ComplianceHints != nil {
			ev.CategoryID = &analysis.ComplianceHints.ID
		}
	}

	h.usage.Submit(ev)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func dataURI(data []byte) string {
	contentType := http.DetectContentType(data)
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
