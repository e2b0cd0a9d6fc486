package redis_functions

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Unlock releases an auction lock if the caller still owns it.
const Unlock = "auc_unlock"

//go:embed *.lua
var fs embed.FS

// LoadAll finds every embedded Lua library and loads/replaces it in Redis.
func LoadAll(ctx context.Context, rdb redis.Cmdable) error {
	files, err := fs.ReadDir(".")
	if err != nil {
		return fmt.Errorf("read embed dir: %w", err)
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".lua") {
			continue
		}

		code, err := fs.ReadFile(f.Name())
		if err != nil {
			return err
		}
		lib, err := rdb.FunctionLoadReplace(ctx, string(code)).Result()
		if err != nil {
			return fmt.Errorf("load lua %s: %w", f.Name(), err)
		}
		zap.L().Info("lua function loaded", zap.String("file", f.Name()), zap.String("library", lib))
	}
	return nil
}
