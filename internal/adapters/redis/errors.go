package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/officeplus/faq-api/internal/ports"
)

// IsClusterRedirect reports whether err is a MOVED or ASK reply, i.e. the
// slot now lives on a different node than the client expected.
func IsClusterRedirect(err error) bool {
	if err == nil {
		return false
	}
	var rerr redis.Error
	if !errors.As(err, &rerr) {
		return false
	}
	msg := rerr.Error()
	return strings.HasPrefix(msg, "MOVED ") || strings.HasPrefix(msg, "ASK ")
}

// isContextDone reports whether err comes from the caller's context rather
// than the server. context.DeadlineExceeded also satisfies net.Error, so this
// must be checked before isUnavailable.
func isContextDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// isUnavailable reports whether err indicates the server could not be reached.
func isUnavailable(err error) bool {
	if errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr)
}

// classify maps a go-redis error onto the port-level taxonomy.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return ports.ErrSessionNotFound
	case isContextDone(err):
		return fmt.Errorf("redis %s: %w", op, err)
	case IsClusterRedirect(err):
		return fmt.Errorf("redis %s: %w: %w", op, ports.ErrClusterRedirect, err)
	case isUnavailable(err):
		return fmt.Errorf("redis %s: %w: %w", op, ports.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("redis %s: %w", op, err)
	}
}
