package api

import (
	"context"
	"errors"
	"io"

	models "PriceSigner/internal/domain/models"
	"PriceSigner/pkg/decimalfloat"
	xhttp "PriceSigner/pkg/http"
	xlogger "PriceSigner/pkg/logger"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/labstack/echo/v4"
)

// ContextSigner is the usecase behind POST /context.
type ContextSigner interface {
	SignedContext(ctx context.Context, body []byte) (*models.SignedContext, error)
}

// SignedContextResponse is the JSON body returned to takers.
type SignedContextResponse struct {
	Signer    string               `json:"signer"`
	Context   []decimalfloat.Float `json:"context"`
	Signature string               `json:"signature"`
}

func newSignedContextResponse(sc *models.SignedContext) SignedContextResponse {
	return SignedContextResponse{
		Signer:    sc.Signer.Hex(),
		Context:   sc.Context,
		Signature: hexutil.Encode(sc.Signature),
	}
}

// ContextEchoHandler serves signed price contexts.
type ContextEchoHandler struct {
	logger *xlogger.Logger
	signer ContextSigner
}

func NewContextEchoHandler(logger *xlogger.Logger, signer ContextSigner) *ContextEchoHandler {
	return &ContextEchoHandler{logger: logger, signer: signer}
}

func (h *ContextEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Health)
	e.POST("/context", h.SignedContext)
}

func (h *ContextEchoHandler) Health(c echo.Context) error {
	return xhttp.TextResponse(c, "ok")
}

// SignedContext accepts an ABI-encoded (OrderV4, uint256, uint256, address) body.
func (h *ContextEchoHandler) SignedContext(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return h.fail(c, models.InvalidBody(err))
	}

	sc, err := h.signer.SignedContext(c.Request().Context(), body)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, newSignedContextResponse(sc))
}

func (h *ContextEchoHandler) fail(c echo.Context, err error) error {
	appErr := toAppError(err)
	if appErr.Status < 500 {
		h.logger.Warn("bad request", xlogger.String("code", appErr.Code), xlogger.Error(err))
	} else {
		h.logger.Error("internal error", xlogger.Error(err))
	}
	return xhttp.ErrorResponse(c, appErr)
}

// toAppError maps request errors to 400 with their code and everything else to 500.
func toAppError(err error) *xhttp.AppError {
	var reqErr *models.RequestError
	if errors.As(err, &reqErr) {
		return xhttp.BadRequestError(reqErr.Code(), reqErr.Error()).WithError(err)
	}
	return xhttp.InternalError(err.Error()).WithError(err)
}
