package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/observability"
	apperrors "github.com/spec-kit/booking-gateway/pkg/util"
)

// RegisterMiddlewares attaches the global middleware chain: per-request
// deadline, error rendering and request logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

// requestTimeoutMiddleware installs a deadline on the user context. Handlers
// pass c.UserContext() to the services, so the deadline bounds every upstream
// call made on behalf of the request.
func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware recovers panics and renders every error through the
// single {"error": {...}} envelope. Expired-credential codes carry a bearer
// challenge so the frontend knows to re-login rather than retry.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := classifyError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)

				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}

				switch domainErr.Code {
				case "UNAUTHORIZED", "SESSION_EXPIRED", "AUTH_FAILED":
					c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
				case "UPSTREAM_ERROR":
					logger.Warn("upstream rejected request",
						zap.String("path", c.Path()),
						zap.Any("details", domainErr.Details),
					)
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}

				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// classifyError maps an error to its rendered DomainError. A request that ran
// out of its deadline waiting on the upstream becomes a gateway timeout
// instead of a generic internal error.
func classifyError(err error) *apperrors.DomainError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewDomainError("GATEWAY_TIMEOUT", "the booking service took too long to respond", fiber.StatusGatewayTimeout, nil)
	}
	return apperrors.ToDomainError(err)
}
