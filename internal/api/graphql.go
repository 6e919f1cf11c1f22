package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/real-social-media/pillar/internal/auth"
	"github.com/real-social-media/pillar/internal/clienterr"
	"github.com/real-social-media/pillar/pkg/logging"
	"github.com/real-social-media/pillar/pkg/telemetry"
)

// Request is the single-endpoint query/mutation envelope: a named
// operation with typed variables.
type Request struct {
	Operation string          `json:"operation"`
	Variables json.RawMessage `json:"variables"`
}

// ResponseError is one entry of the errors array
type ResponseError struct {
	Message string `json:"message"`
}

// Response is the result envelope. Client-reported failures ride in
// the errors array with a stable, matchable message; data carries the
// result keyed by the operation's result field.
type Response struct {
	Data   map[string]interface{} `json:"data,omitempty"`
	Errors []ResponseError        `json:"errors,omitempty"`
}

// OperationHandler resolves one named operation for the authenticated
// caller
type OperationHandler func(c *gin.Context, callerID string, vars json.RawMessage) (interface{}, error)

type operation struct {
	// field is the key the result is returned under; distinct
	// operations may share one (both user-settings mutations resolve
	// to "setUserDetails")
	field   string
	handler OperationHandler
}

// Handler dispatches named operations on the single endpoint
type Handler struct {
	ops    map[string]operation
	logger *zap.Logger
}

// NewHandler creates a new operation dispatcher
func NewHandler() *Handler {
	return &Handler{
		ops:    make(map[string]operation),
		logger: logging.WithComponent("graphql"),
	}
}

// Register registers an operation under its result field
func (h *Handler) Register(name, resultField string, handler OperationHandler) {
	h.ops[name] = operation{field: resultField, handler: handler}
}

// Handle handles one request
func (h *Handler) Handle(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Errors: []ResponseError{{Message: "ClientError: Malformed request"}},
		})
		return
	}

	op, ok := h.ops[req.Operation]
	if !ok {
		c.JSON(http.StatusOK, Response{
			Errors: []ResponseError{{Message: "ClientError: Unknown operation " + req.Operation}},
		})
		return
	}

	_, span := telemetry.StartSpan(c.Request.Context(), "graphql."+req.Operation)
	defer span.End()

	callerID := auth.CallerID(c)
	result, err := op.handler(c, callerID, req.Variables)
	if err != nil {
		h.sendError(c, req.Operation, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Data: map[string]interface{}{op.field: result},
	})
}

func (h *Handler) sendError(c *gin.Context, operation string, err error) {
	if clienterr.IsClient(err) {
		c.JSON(http.StatusOK, Response{
			Errors: []ResponseError{{Message: "ClientError: " + err.Error()}},
		})
		return
	}

	h.logger.Error("Operation failed",
		zap.String("operation", operation),
		zap.Error(err))
	c.JSON(http.StatusOK, Response{
		Errors: []ResponseError{{Message: "ServerError: internal failure"}},
	})
}

// decodeVars decodes operation variables into dst, reporting malformed
// input as a client error
func decodeVars(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return clienterr.Validationf("Invalid variables: %v", err)
	}
	return nil
}
