// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package standardises structured logging across services through a single
// factory, New, that creates a *slog.Logger configured by Option functions:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from a
//     context value (for example a request id) every time Handle is invoked.
//
// Helper constructors such as Group, Error, UserID and Event live in attr.go
// and return commonly-used slog.Attr instances so attribute names stay
// consistent across packages.
//
// # Usage
//
//	import "github.com/sitetrack/authkit/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithProduction("auth-service"),
//	        logger.WithContextValue("request_id", ctxKeyRequestID),
//	    )
//	    logger.SetAsDefault(log)
//
//	    log.InfoContext(ctx, "two-factor verification succeeded",
//	        logger.UserID(userID),
//	        logger.Method("totp"),
//	        logger.Duration(time.Since(start)),
//	    )
//	}
//
// # Error Handling
//
// Error and Errors produce attributes only when the supplied error value is
// non-nil, allowing calls like
//
//	log.Info("operation finished", logger.Error(err))
//
// without an additional nil check.
package logger
