package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"

	"scan_service/pkg/logx"
)

// RedisLoggingHook writes every command and pipeline to the debug log.
type RedisLoggingHook struct {
	logger *slog.Logger
}

func NewRedisLoggingHook(logger *slog.Logger) RedisLoggingHook {
	return RedisLoggingHook{logger: logger}
}

func (h RedisLoggingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		h.logger.DebugContext(ctx, "redis dial",
			slog.String("network", network),
			slog.String("address", addr),
		)

		return next(ctx, network, addr)
	}
}

func (h RedisLoggingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)

		h.logger.DebugContext(ctx, "redis command",
			slog.String("command", cmd.Name()),
			slog.String("args", argsToString(cmd.Args())),
			logx.Error(ignoreNil(cmd.Err())),
		)

		return err
	}
}

func (h RedisLoggingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)

		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, cmd.Name())
		}

		h.logger.DebugContext(ctx, "redis pipeline",
			slog.Int("size", len(cmds)),
			slog.String("commands", strings.Join(names, ", ")),
			logx.Error(err),
		)

		return err
	}
}

// ignoreNil drops redis.Nil, which only signals a missing key.
func ignoreNil(err error) error {
	if err == redis.Nil { //nolint:errorlint
		return nil
	}

	return err
}

func argsToString(args []any) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}

	return strings.Join(parts, " ")
}
