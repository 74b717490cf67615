package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogPipelineHooks writes pipeline and cache events to a logger at debug
// level. The CLI installs it when --verbose is set.
type LogPipelineHooks struct {
	logger *log.Logger
}

// NewLogPipelineHooks returns hooks that log to logger.
func NewLogPipelineHooks(logger *log.Logger) *LogPipelineHooks {
	return &LogPipelineHooks{logger: logger}
}

func (h *LogPipelineHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load", "source", source)
}

func (h *LogPipelineHooks) OnLoadComplete(_ context.Context, source string, transforms int, d time.Duration, err error) {
	h.done("loaded", err, "source", source, "transforms", transforms, "took", d)
}

func (h *LogPipelineHooks) OnComposeStart(_ context.Context, placements int) {
	h.logger.Debug("compose", "placements", placements)
}

func (h *LogPipelineHooks) OnComposeComplete(_ context.Context, libraries, blocks int, d time.Duration, err error) {
	h.done("composed", err, "libraries", libraries, "blocks", blocks, "took", d)
}

func (h *LogPipelineHooks) OnShaderStart(_ context.Context, stage string) {
	h.logger.Debug("shader", "stage", stage)
}

func (h *LogPipelineHooks) OnShaderComplete(_ context.Context, stage string, size int, d time.Duration, err error) {
	h.done("shader done", err, "stage", stage, "bytes", size, "took", d)
}

func (h *LogPipelineHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogPipelineHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogPipelineHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogPipelineHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.logger.Debug(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

var (
	_ PipelineHooks = (*LogPipelineHooks)(nil)
	_ CacheHooks    = (*LogPipelineHooks)(nil)
)
